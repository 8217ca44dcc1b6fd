package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/sakif/vitaltrack/internal/apperror"
	"github.com/sakif/vitaltrack/internal/model"
	"github.com/sakif/vitaltrack/internal/repository"
)

var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, username, password, streak, last_log_date,
	full_name, age, sex, height_cm, weight_kg, activity_level, goal, allergies,
	github_id, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u        model.User
		lastLog  sql.NullString
		githubID sql.NullInt64
		sex      string
		activity string
		goal     string
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Streak.Count, &lastLog,
		&u.Profile.FullName, &u.Profile.Age, &sex, &u.Profile.HeightCm, &u.Profile.WeightKg,
		&activity, &goal, &u.Profile.Allergies,
		&githubID, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Streak.LastLogDate = lastLog.String
	u.Profile.Sex = model.Sex(sex)
	u.Profile.ActivityLevel = model.ActivityLevel(activity)
	u.Profile.Goal = model.Goal(goal)
	if githubID.Valid {
		id := githubID.Int64
		u.GitHubID = &id
	}
	return &u, nil
}

// CreateUser inserts a password account and returns its id.
func (db *DB) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (username, password) VALUES (?, ?)`,
		username, passwordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperror.Conflict("username", "username already exists")
		}
		return 0, fmt.Errorf("sqlite: inserting user %q: %w", username, err)
	}
	return res.LastInsertId()
}

// GetUserByID returns apperror.ErrNotFound when no such user exists.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}
	return u, nil
}

// GetUserByUsername returns apperror.ErrNotFound when no such user exists.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", username, err)
	}
	return u, nil
}

// UpsertGitHubUser returns the account linked to githubID. On first sign-in
// it creates one named after the GitHub login, suffixed with the GitHub id
// when that username is already taken by a password account.
func (db *DB) UpsertGitHubUser(ctx context.Context, githubID int64, login string) (*model.User, error) {
	var user *model.User
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		u, err := scanUser(tx.QueryRowContext(ctx,
			`SELECT `+userColumns+` FROM users WHERE github_id = ?`, githubID))
		if err == nil {
			user = u
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("sqlite: looking up github user %d: %w", githubID, err)
		}

		username := login
		_, err = tx.ExecContext(ctx,
			`INSERT INTO users (username, github_id) VALUES (?, ?)`, username, githubID)
		if isUniqueViolation(err) {
			username = fmt.Sprintf("%s-gh%d", login, githubID)
			_, err = tx.ExecContext(ctx,
				`INSERT INTO users (username, github_id) VALUES (?, ?)`, username, githubID)
		}
		if err != nil {
			return fmt.Errorf("sqlite: inserting github user %d: %w", githubID, err)
		}

		user, err = scanUser(tx.QueryRowContext(ctx,
			`SELECT `+userColumns+` FROM users WHERE github_id = ?`, githubID))
		if err != nil {
			return fmt.Errorf("sqlite: reading github user %d: %w", githubID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile overwrites every profile column of the user.
func (db *DB) UpdateProfile(ctx context.Context, id int64, p model.Profile) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET full_name = ?, age = ?, sex = ?, height_cm = ?, weight_kg = ?,
		        activity_level = ?, goal = ?, allergies = ?
		 WHERE id = ?`,
		p.FullName, p.Age, string(p.Sex), p.HeightCm, p.WeightKg,
		string(p.ActivityLevel), string(p.Goal), p.Allergies,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating profile of user %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("user", strconv.FormatInt(id, 10))
	}
	return nil
}
