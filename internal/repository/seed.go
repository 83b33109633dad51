package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
)

// SeedData is the initial-data file layout.
type SeedData struct {
	Superuser *SeedUser `yaml:"superuser"`
	Models    []struct {
		ID          string `yaml:"id"`
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		Provider    string `yaml:"provider"`
		Function    string `yaml:"function"`
		Rank        int    `yaml:"rank"`
		Active      *bool  `yaml:"active"`
	} `yaml:"models"`
	Connectors []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Function    string `yaml:"function"`
		Active      *bool  `yaml:"active"`
	} `yaml:"connectors"`
	Templates []struct {
		ID           string `yaml:"id"`
		Title        string `yaml:"title"`
		Description  string `yaml:"description"`
		Instructions string `yaml:"instructions"`
		Template     string `yaml:"template"`
		Placeholder  string `yaml:"placeholder"`
		Model        string `yaml:"model"`
		Connector    string `yaml:"connector"`
		Active       *bool  `yaml:"active"`
	} `yaml:"templates"`
	// Documents are knowledge-base entries; they are loaded into Redis, not the store.
	Documents []domain.Document `yaml:"documents"`
}

// SeedUser is the first superuser account.
type SeedUser struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	FullName string `yaml:"full_name"`
}

// LoadSeedFile reads a seed file. A missing file yields empty seed data.
func LoadSeedFile(path string) (*SeedData, error) {
	data := &SeedData{}
	if path == "" {
		return data, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	if err := yaml.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return data, nil
}

// Seed inserts the seed records that do not exist yet. Existing ids and
// emails are left untouched, so running it on every start is safe.
func Seed(ctx context.Context, s Store, data *SeedData, hash func(string) (string, error), logger zerolog.Logger) error {
	now := time.Now().UTC()

	if su := data.Superuser; su != nil && su.Email != "" {
		existing, err := s.GetUserByEmail(ctx, su.Email)
		if err != nil {
			return err
		}
		if existing == nil {
			hashed, err := hash(su.Password)
			if err != nil {
				return fmt.Errorf("failed to hash superuser password: %w", err)
			}
			err = s.CreateUser(ctx, &domain.User{
				ID:             uuid.NewString(),
				Email:          su.Email,
				FullName:       su.FullName,
				HashedPassword: hashed,
				IsActive:       true,
				IsSuperuser:    true,
				CreatedAt:      now,
			})
			if err != nil {
				return fmt.Errorf("failed to create superuser: %w", err)
			}
			logger.Info().Str("email", su.Email).Msg("seeded superuser")
		}
	}

	for _, m := range data.Models {
		if m.ID == "" {
			return fmt.Errorf("%w: seed model without id", domain.ErrInvalidInput)
		}
		existing, err := s.GetModel(ctx, m.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		err = s.CreateModel(ctx, &domain.ModelRecord{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Provider:    m.Provider,
			Function:    m.Function,
			Rank:        m.Rank,
			Active:      boolOr(m.Active, true),
			CreatedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("failed to seed model %q: %w", m.ID, err)
		}
		logger.Info().Str("model", m.ID).Str("function", m.Function).Msg("seeded model")
	}

	for _, c := range data.Connectors {
		if c.ID == "" {
			return fmt.Errorf("%w: seed connector without id", domain.ErrInvalidInput)
		}
		existing, err := s.GetConnector(ctx, c.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		err = s.CreateConnector(ctx, &domain.ConnectorRecord{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Function:    c.Function,
			Active:      boolOr(c.Active, true),
			CreatedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("failed to seed connector %q: %w", c.ID, err)
		}
		logger.Info().Str("connector", c.ID).Str("function", c.Function).Msg("seeded connector")
	}

	for _, t := range data.Templates {
		if t.ID == "" {
			return fmt.Errorf("%w: seed template without id", domain.ErrInvalidInput)
		}
		existing, err := s.GetTemplate(ctx, t.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		err = s.CreateTemplate(ctx, &domain.PromptTemplate{
			ID:           t.ID,
			Title:        t.Title,
			Description:  t.Description,
			Instructions: t.Instructions,
			Template:     t.Template,
			Placeholder:  t.Placeholder,
			Model:        t.Model,
			Connector:    t.Connector,
			Active:       boolOr(t.Active, true),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("failed to seed template %q: %w", t.ID, err)
		}
		logger.Info().Str("template", t.ID).Msg("seeded template")
	}
	return nil
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
