package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientRepository is the client directory: identity lookup and the
// discount code column, which is the only field the core writes.
type ClientRepository interface {
	GetClient(ctx context.Context, id domain.ClientID) (*domain.User, error)
	SetDiscountCode(ctx context.Context, id domain.ClientID, code string) error
}

type PGClientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) ClientRepository {
	return &PGClientRepository{db: db}
}

func (r *PGClientRepository) GetClient(ctx context.Context, id domain.ClientID) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT u.id, u.first_name, u.last_name, u.email, u.phone_number, u.address, u.birthdate,
		c.passport_number, c.discount_code
		FROM users u JOIN clients c ON c.user_id = u.id
		WHERE u.id=$1`, int64(id))

	var (
		u            domain.User
		userID       int64
		birthdate    sql.NullTime
		passport     string
		discountCode sql.NullString
	)
	if err := row.Scan(&userID, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber, &u.Address, &birthdate,
		&passport, &discountCode); err != nil {
		return nil, translate(err, fmt.Sprintf("client %d", id))
	}
	u.ID = domain.UserID(userID)
	u.Birthdate = birthdate.Time
	u.Role = domain.ClientRole{PassportNumber: passport, DiscountCode: discountCode.String}
	return &u, nil
}

// SetDiscountCode overwrites the code in a single statement.
func (r *PGClientRepository) SetDiscountCode(ctx context.Context, id domain.ClientID, code string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE clients SET discount_code=$1 WHERE user_id=$2`, code, int64(id))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("client %d not found", id)
	}
	return nil
}

var _ ClientRepository = (*PGClientRepository)(nil)
