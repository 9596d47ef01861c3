package resolver

import (
	"context"
	"database/sql"
	"errors"

	"google-signin-starter/internal/auth"
	"google-signin-starter/internal/db"

	"github.com/google/uuid"
)

// DBResolver resolves identities using the database. Profile fields
// (display name, photo) are refreshed on every resolution so the header
// always shows what the provider last asserted.
type DBResolver struct {
	db *db.DB
}

func NewDBResolver(db *db.DB) *DBResolver {
	return &DBResolver{db: db}
}

func (r *DBResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (*Profile, error) {

	if identity == nil {
		return nil, errors.New("identity is nil")
	}

	// 1. Try identity lookup (provider + provider_user_id)
	var userID uuid.UUID
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id
		FROM public.identities
		WHERE provider = $1
		  AND provider_user_id = $2
	`,
		identity.Provider,
		identity.ProviderUserID,
	).Scan(&userID)

	if err == nil {
		return r.refreshProfile(ctx, userID, identity)
	}

	if err != sql.ErrNoRows {
		return nil, err
	}

	// 2. Try email-based linking (existing user, new provider)
	err = r.db.QueryRowContext(ctx, `
		SELECT id
		FROM public.users
		WHERE email = $1
	`,
		identity.Email,
	).Scan(&userID)

	if err == nil {
		// Link new identity to existing user
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO public.identities (user_id, provider, provider_user_id)
			VALUES ($1, $2, $3)
		`,
			userID,
			identity.Provider,
			identity.ProviderUserID,
		); err != nil {
			return nil, err
		}

		return r.refreshProfile(ctx, userID, identity)
	}

	if err != sql.ErrNoRows {
		return nil, err
	}

	// 3. Create new user with the provider-reported profile
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO public.users (email, email_verified, display_name, photo_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`,
		identity.Email,
		identity.EmailVerified,
		identity.DisplayName,
		identity.PictureURL,
	).Scan(&userID)

	if err != nil {
		return nil, err
	}

	// 4. Create identity mapping
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO public.identities (user_id, provider, provider_user_id)
		VALUES ($1, $2, $3)
	`,
		userID,
		identity.Provider,
		identity.ProviderUserID,
	); err != nil {
		return nil, err
	}

	return &Profile{
		UserID:      userID.String(),
		DisplayName: identity.DisplayName,
		PhotoURL:    identity.PictureURL,
	}, nil
}

// refreshProfile overwrites the stored profile with the latest provider
// claims and returns it. Claims win over local state, wholesale.
func (r *DBResolver) refreshProfile(
	ctx context.Context,
	userID uuid.UUID,
	identity *auth.Identity,
) (*Profile, error) {

	_, err := r.db.ExecContext(ctx, `
		UPDATE public.users
		SET display_name = $2,
		    photo_url = $3,
		    updated_at = NOW()
		WHERE id = $1
	`,
		userID,
		identity.DisplayName,
		identity.PictureURL,
	)
	if err != nil {
		return nil, err
	}

	return &Profile{
		UserID:      userID.String(),
		DisplayName: identity.DisplayName,
		PhotoURL:    identity.PictureURL,
	}, nil
}
