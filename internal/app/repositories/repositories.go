package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/studentrecords/internal/db"
)

// ConnProvider hands out the connection a repository should use for ctx.
// *db.PostgresDB returns the transaction bound to ctx, if any, and the pool otherwise.
type ConnProvider interface {
	Conn(ctx context.Context) db.Querier
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository    *UserRepository
	StudentRepository *StudentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(conn ConnProvider) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(conn),
		StudentRepository: NewStudentRepository(conn),
	}
}

func newStatementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
