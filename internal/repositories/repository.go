package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation - код SQLSTATE нарушения уникального ограничения.
// Ограничения БД - авторитетный механизм защиты пар (department, week) и
// (department, date): предварительные проверки существования лишь оптимизация,
// гонка двух запросов оканчивается здесь и должна отдаваться как конфликт.
const uniqueViolation = "23505"

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
