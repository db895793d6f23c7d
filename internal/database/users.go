package database

import "context"

const checkUsersTableExists = `
SELECT to_regclass('users') IS NOT NULL
`

func (q *Queries) CheckUsersTableExists(ctx context.Context) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, checkUsersTableExists).Scan(&exists)
	return exists, err
}

const countUsers = `
SELECT count(*) FROM users
`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countUsers).Scan(&count)
	return count, err
}

const createUser = `
INSERT INTO users (username, email, password_hash, bio)
VALUES ($1, $2, $3, $4)
RETURNING id
`

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, createUser,
		arg.Username, arg.Email, arg.PasswordHash, arg.Bio).Scan(&id)
	return id, err
}

const getUser = `
SELECT id, username, email, password_hash, bio, profile_picture, created_at, updated_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, getUser, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Bio, &u.ProfilePicture, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const updateUser = `
UPDATE users
SET username = COALESCE($2, username),
    bio = COALESCE($3, bio),
    updated_at = now()
WHERE id = $1
RETURNING id, username, email, password_hash, bio, profile_picture, created_at, updated_at
`

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, updateUser, arg.ID, arg.Username, arg.Bio).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Bio, &u.ProfilePicture, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const updateUserPicture = `
UPDATE users
SET profile_picture = $2,
    updated_at = now()
WHERE id = $1
`

func (q *Queries) UpdateUserPicture(ctx context.Context, arg UpdateUserPictureParams) error {
	tag, err := q.db.Exec(ctx, updateUserPicture, arg.ID, arg.ProfilePicture)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
