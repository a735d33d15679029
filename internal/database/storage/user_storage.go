package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, username, created_at, updated_at`

// UserStorage реализует интерфейс ports.UserStorage
type UserStorage struct {
	base
}

// NewUserStorage создает новый экземпляр UserStorage
func NewUserStorage(db *sqlx.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{base{db: db, logger: logger}}
}

// CreateUser сохраняет нового пользователя. Пустые id и метки времени заполняются.
func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := nowUTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = user.CreatedAt

	_, err := s.q(ctx).NamedExecContext(ctx, `
		INSERT INTO users (id, username, created_at, updated_at)
		VALUES (:id, :username, :created_at, :updated_at)
	`, user)
	if err != nil {
		err = classify(err)
		if errors.Is(err, domain.ErrDuplicateResource) {
			s.logger.Warn("username already taken", "username", user.Username)
			return domain.Duplicate("User", "username", user.Username, err)
		}
		s.logger.Error("failed to insert user", "username", user.Username, "error", err)
		return fmt.Errorf("ошибка при сохранении пользователя: %w", err)
	}

	s.logger.Info("user created",
		"user_id", user.ID,
		"username", user.Username,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetUserByID получает пользователя по ID
func (s *UserStorage) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	q := s.q(ctx)
	err := q.GetContext(ctx, &user, q.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("User", "id", id)
		}
		s.logger.Error("failed to get user by id", "id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя по ID: %w", err)
	}
	return &user, nil
}

// GetUserByUsername получает пользователя по имени
func (s *UserStorage) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	q := s.q(ctx)
	err := q.GetContext(ctx, &user, q.Rebind(`SELECT `+userColumns+` FROM users WHERE username = ?`), username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("User", "username", username)
		}
		s.logger.Error("failed to get user by username", "username", username, "error", err)
		return nil, fmt.Errorf("ошибка при получении пользователя по имени: %w", err)
	}
	return &user, nil
}

func (s *UserStorage) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var n int64
	q := s.q(ctx)
	if err := q.GetContext(ctx, &n, q.Rebind(`SELECT COUNT(*) FROM users WHERE username = ?`), username); err != nil {
		return false, fmt.Errorf("ошибка при проверке имени пользователя: %w", err)
	}
	return n > 0, nil
}

// ListUsers возвращает всех пользователей по имени
func (s *UserStorage) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := s.q(ctx).SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY username`); err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("ошибка при получении списка пользователей: %w", err)
	}
	return users, nil
}

// SearchUsers ищет пользователей по подстроке имени без учёта регистра
func (s *UserStorage) SearchUsers(ctx context.Context, term string) ([]domain.User, error) {
	start := time.Now()

	users := []domain.User{}
	q := s.q(ctx)
	query := q.Rebind(`SELECT ` + userColumns + ` FROM users
		WHERE LOWER(username) LIKE ? ESCAPE '\'
		ORDER BY username`)

	if err := q.SelectContext(ctx, &users, query, likePattern(term)); err != nil {
		s.logger.Error("failed to search users", "term", term, "error", err)
		return nil, fmt.Errorf("ошибка при поиске пользователей: %w", err)
	}

	s.logger.Info("users search completed",
		"term", term,
		"found", len(users),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return users, nil
}

// DeleteUser удаляет пользователя. Если у него остались записи, возвращается ошибка
// с domain.ErrStillReferenced.
func (s *UserStorage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	q := s.q(ctx)
	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		err = classify(err)
		if !errors.Is(err, domain.ErrStillReferenced) {
			s.logger.Error("failed to delete user", "id", id, "error", err)
		}
		return fmt.Errorf("ошибка при удалении пользователя: %w", err)
	}
	if err := requireAffected(res, domain.NotFound("User", "id", id)); err != nil {
		return err
	}
	s.logger.Info("user deleted", "id", id)
	return nil
}

// likePattern экранирует спецсимволы LIKE и оборачивает строку в %...%.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при получении числа изменённых строк: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// nowUTC — текущее время в UTC с точностью до микросекунд, как хранит postgres.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
