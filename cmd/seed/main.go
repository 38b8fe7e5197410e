package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"cribhub/internal/auth"
	"cribhub/internal/config"
	"cribhub/internal/db"
	apperrors "cribhub/internal/errors"
	"cribhub/internal/logger"
	"cribhub/internal/model"
	"cribhub/internal/repository"
	"cribhub/internal/service"
)

const defaultSource = "cmd/seed/fixture.json"

// Fixture is the demo data set.
type Fixture struct {
	Users []SeedUser `json:"users"`
	Cribs []SeedCrib `json:"cribs"`
}

// SeedUser is a user to register.
type SeedUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Gender   string `json:"gender"`
}

// SeedCrib is a crib with members and messages referencing users by username.
type SeedCrib struct {
	Name     string        `json:"name"`
	Key      string        `json:"key"`
	Creator  string        `json:"creator"`
	Members  []string      `json:"members"`
	Messages []SeedMessage `json:"messages"`
}

// SeedMessage is a message posted by username.
type SeedMessage struct {
	Author string `json:"author"`
	Body   string `json:"message"`
}

// Summary counts what a run created and skipped.
type Summary struct {
	UsersCreated int
	UsersSkipped int
	CribsCreated int
	CribsSkipped int
	Messages     int
}

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		stdlog.Fatalf("logger init: %v", err)
	}
	defer func() { _ = log.Sync() }()

	source := defaultSource
	if len(os.Args) > 1 {
		source = os.Args[1]
	}
	fixture, err := loadFixture(source)
	if err != nil {
		log.Fatal("load fixture", zap.String("source", source), zap.Error(err))
	}

	ctx := context.Background()
	store, err := db.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal("store init", zap.Error(err))
	}
	defer func() { _ = store.Close(ctx) }()

	users := service.NewUserService(store.Users, auth.NewBcryptHasher(cfg.BcryptCost), nil, nil, cfg.DefaultAvatarLink, log)
	cribs := service.NewCribService(store.Cribs, service.NewEnricher(store.Users), log)

	summary, err := seed(ctx, users, store.Users, cribs, fixture)
	if err != nil {
		log.Fatal("seed", zap.Error(err))
	}

	log.Info("seed completed",
		zap.Int("users_created", summary.UsersCreated),
		zap.Int("users_skipped", summary.UsersSkipped),
		zap.Int("cribs_created", summary.CribsCreated),
		zap.Int("cribs_skipped", summary.CribsSkipped),
		zap.Int("messages", summary.Messages),
	)
}

// loadFixture reads the fixture from a file path or an http(s) URL.
func loadFixture(source string) (*Fixture, error) {
	var r io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return nil, fmt.Errorf("fetch fixture: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fixture source returned status code: %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open fixture: %w", err)
		}
		r = f
	}
	defer r.Close()

	var fixture Fixture
	if err := json.NewDecoder(r).Decode(&fixture); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &fixture, nil
}

// seed replays the fixture through the services. Users and cribs that already exist are
// skipped, so running it twice is harmless.
func seed(
	ctx context.Context,
	users service.UserService,
	userRepo repository.UserRepository,
	cribs service.CribService,
	fixture *Fixture,
) (Summary, error) {
	var summary Summary
	ids := make(map[string]string, len(fixture.Users))

	for _, u := range fixture.Users {
		created, err := users.Register(ctx, service.RegisterInput{
			Username: u.Username,
			Password: u.Password,
			Gender:   model.Gender(u.Gender),
		})
		switch {
		case err == nil:
			ids[u.Username] = created.ID
			summary.UsersCreated++
		case errors.Is(err, apperrors.ErrUsernameTaken):
			existing, err := userRepo.FindByUsername(ctx, u.Username)
			if err != nil {
				return summary, fmt.Errorf("look up existing user %s: %w", u.Username, err)
			}
			ids[u.Username] = existing.ID
			summary.UsersSkipped++
		default:
			return summary, fmt.Errorf("register %s: %w", u.Username, err)
		}
	}

	resolve := func(username string) (string, error) {
		id, ok := ids[username]
		if !ok {
			return "", fmt.Errorf("unknown user %q in fixture", username)
		}
		return id, nil
	}

	for _, c := range fixture.Cribs {
		creatorID, err := resolve(c.Creator)
		if err != nil {
			return summary, err
		}
		crib, err := cribs.Create(ctx, service.CreateCribInput{Name: c.Name, Key: c.Key, CreatorID: creatorID})
		if errors.Is(err, apperrors.ErrCribNameTaken) {
			summary.CribsSkipped++
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("create crib %s: %w", c.Name, err)
		}
		summary.CribsCreated++

		memberIDs := make([]string, 0, len(c.Members))
		for _, username := range c.Members {
			id, err := resolve(username)
			if err != nil {
				return summary, err
			}
			memberIDs = append(memberIDs, id)
		}
		if len(memberIDs) > 0 {
			if _, err := cribs.AddMembers(ctx, crib.ID, memberIDs); err != nil {
				return summary, fmt.Errorf("add members to %s: %w", c.Name, err)
			}
		}

		for _, m := range c.Messages {
			authorID, err := resolve(m.Author)
			if err != nil {
				return summary, err
			}
			if _, err := cribs.PostMessage(ctx, crib.ID, authorID, m.Body); err != nil {
				return summary, fmt.Errorf("post message to %s: %w", c.Name, err)
			}
			summary.Messages++
		}
	}

	return summary, nil
}
