package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/partslane/fulfillment/internal/apierror"
	"github.com/partslane/fulfillment/model"
)

func (d Datasource) GetProvider(ctx context.Context, id string) (*model.Provider, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT provider_id, name, role, phone, verified, approved, created_at
		FROM providers
		WHERE provider_id = $1
	`, id)

	p := &model.Provider{}
	var phone sql.NullString
	err := row.Scan(&p.ProviderID, &p.Name, &p.Role, &phone, &p.Verified, &p.Approved, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("Provider with ID '%s' not found", id), err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve provider", err)
	}
	p.Phone = phone.String

	return p, nil
}
