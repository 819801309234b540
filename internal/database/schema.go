package database

import (
	"context"
	"database/sql"

	"golang.org/x/crypto/bcrypt"
)

// ddl contains one CREATE TABLE per entry; MySQL drivers reject multi
// statement strings by default, so each runs on its own.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(191) NOT NULL,
		email VARCHAR(191) NOT NULL,
		password VARCHAR(191) NOT NULL,
		role ENUM('USER','ADMIN') NOT NULL DEFAULT 'USER',
		deleted TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS tokens (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		token_key VARCHAR(1024) NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_tokens_user (user_id),
		CONSTRAINT fk_tokens_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title VARCHAR(191) NOT NULL,
		description TEXT NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		deleted TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_tasks_user (user_id),
		CONSTRAINT fk_tasks_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the application tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// SeedAdmin inserts the bootstrap ADMIN account when the email is not taken.
// Running it on every start is safe; an existing row is left untouched.
func SeedAdmin(ctx context.Context, db *sql.DB, email, password string, cost int) error {
	if email == "" || password == "" {
		return nil
	}
	var exists int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM users WHERE email=?", email).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		"INSERT INTO users (name, email, password, role) VALUES (?,?,?,'ADMIN')",
		"Admin", email, string(hash))
	return err
}
