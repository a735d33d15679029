package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/GoArmGo/DailyTrack/internal/messaging/payloads"
	"github.com/GoArmGo/DailyTrack/internal/validation"
	"github.com/google/uuid"
)

// userUseCase implements UserUseCase
type userUseCase struct {
	base
}

// NewUserUseCase создает новый экземпляр UserUseCase
func NewUserUseCase(d Deps) UserUseCase {
	return &userUseCase{base: newBase(d)}
}

func (uc *userUseCase) CreateUser(ctx context.Context, username string) (*domain.User, error) {
	user := &domain.User{Username: username}
	if err := uc.Users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при создании пользователя: %w", err)
	}
	uc.publish(ctx, payloads.EventUserCreated, username, user.ID, domain.Date{})
	return user, nil
}

func (uc *userUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := uc.Users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении пользователя: %w", err)
	}
	return u, nil
}

func (uc *userUseCase) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return uc.user(ctx, username)
}

func (uc *userUseCase) ListUsers(ctx context.Context, search string) ([]domain.User, error) {
	var (
		users []domain.User
		err   error
	)
	if term := strings.TrimSpace(search); term != "" {
		users, err = uc.Users.SearchUsers(ctx, term)
	} else {
		users, err = uc.Users.ListUsers(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении пользователей: %w", err)
	}
	return users, nil
}

func (uc *userUseCase) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return uc.Users.ExistsByUsername(ctx, username)
}

// DeleteUser удаляет пользователя в одной транзакции с проверкой недавней активности.
// Старые записи пользователя удаляются явно до удаления самого пользователя; внешние ключи
// без каскада, поэтому запись, вставленная параллельно, даст нарушение правила owned_records.
func (uc *userUseCase) DeleteUser(ctx context.Context, username string) error {
	var userID uuid.UUID

	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := uc.user(ctx, username)
		if err != nil {
			return err
		}
		userID = user.ID

		today := uc.today()
		recent, err := uc.Tasks.CountTasksByDateRange(ctx, user.ID, today.AddDays(-validation.RecentActivityDays), today)
		if err != nil {
			return fmt.Errorf("usecase: ошибка при подсчёте недавних задач: %w", err)
		}
		if err := validation.UserDeletion(recent); err != nil {
			return err
		}

		if err := uc.purge(ctx, user.ID); err != nil {
			return err
		}

		if err := uc.Users.DeleteUser(ctx, user.ID); err != nil {
			if errors.Is(err, domain.ErrStillReferenced) {
				return domain.RuleViolation(domain.RuleOwnedRecords,
					"Cannot delete user %s: the user still owns tasks, reflections or energy assessments", username)
			}
			return fmt.Errorf("usecase: ошибка при удалении пользователя: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.publish(ctx, payloads.EventUserDeleted, username, userID, domain.Date{})
	return nil
}

// purge удаляет оценки энергии, рефлексии и задачи пользователя.
func (uc *userUseCase) purge(ctx context.Context, userID uuid.UUID) error {
	steps := []struct {
		what string
		del  func(context.Context, uuid.UUID) (int64, error)
	}{
		{"energy_assessments", uc.Energy.DeleteAssessmentsByUser},
		{"reflections", uc.Reflections.DeleteReflectionsByUser},
		{"tasks", uc.Tasks.DeleteTasksByUser},
	}
	for _, step := range steps {
		n, err := step.del(ctx, userID)
		if err != nil {
			return fmt.Errorf("usecase: ошибка при удалении записей пользователя: %w", err)
		}
		if n > 0 {
			uc.Logger.Info("user records purged", "user_id", userID, "table", step.what, "count", n)
		}
	}
	return nil
}
