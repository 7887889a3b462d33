package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/BruksfildServices01/healthconnect-api/internal/domain/user"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

const (
	usersCollection     = "users"
	passwordsCollection = "user_passwords"
)

// UserFirestoreRepository stores profiles in "users" and password hashes in
// "user_passwords", both keyed by user id.
type UserFirestoreRepository struct {
	client *firestore.Client
}

func NewUserFirestoreRepository(client *firestore.Client) *UserFirestoreRepository {
	return &UserFirestoreRepository{client: client}
}

func (r *UserFirestoreRepository) users() *firestore.CollectionRef {
	return r.client.Collection(usersCollection)
}

func decodeUser(doc *firestore.DocumentSnapshot) (*models.User, error) {
	var u models.User
	if err := doc.DataTo(&u); err != nil {
		return nil, err
	}
	u.ID = doc.Ref.ID
	return &u, nil
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *UserFirestoreRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	doc, err := r.users().Doc(id).Get(ctx)
	if err != nil {
		return nil, httperr.FromGRPC(err, httperr.CodeUserNotFound)
	}
	return decodeUser(doc)
}

func (r *UserFirestoreRepository) findOne(ctx context.Context, field, value string) (*models.User, error) {
	if value == "" {
		return nil, httperr.ErrBusiness(httperr.CodeUserNotFound)
	}

	docs, err := r.users().Where(field, "==", value).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, httperr.FromGRPC(err, httperr.CodeUserNotFound)
	}
	if len(docs) == 0 {
		return nil, httperr.ErrBusiness(httperr.CodeUserNotFound)
	}
	return decodeUser(docs[0])
}

func (r *UserFirestoreRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.findOne(ctx, "phone", phone)
}

func (r *UserFirestoreRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *UserFirestoreRepository) List(ctx context.Context) ([]models.User, error) {
	docs, err := r.users().OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, httperr.FromGRPC(err, "")
	}

	out := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		u, err := decodeUser(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}

// --------------------------------------------------
// Writes
// --------------------------------------------------

// claimed reports whether u's phone or email already belongs to another user,
// reading inside tx.
func (r *UserFirestoreRepository) claimed(tx *firestore.Transaction, u *models.User) (bool, error) {
	for field, value := range map[string]string{"phone": u.Phone, "email": u.Email} {
		if value == "" {
			continue
		}
		docs, err := tx.Documents(r.users().Where(field, "==", value).Limit(2)).GetAll()
		if err != nil {
			return false, err
		}
		for _, doc := range docs {
			if doc.Ref.ID != u.ID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *UserFirestoreRepository) Create(ctx context.Context, u *models.User, cred *models.Credential) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		taken, err := r.claimed(tx, u)
		if err != nil {
			return err
		}
		if taken {
			return httperr.ErrBusiness(httperr.CodeDuplicateAccount)
		}

		if err := tx.Create(r.users().Doc(u.ID), u); err != nil {
			return err
		}
		if cred == nil {
			return nil
		}
		cred.UserID = u.ID
		return tx.Set(r.client.Collection(passwordsCollection).Doc(u.ID), cred)
	})
	if err != nil {
		if httperr.CodeOf(err) != "" {
			return err
		}
		return httperr.FromGRPC(err, "")
	}
	return nil
}

func (r *UserFirestoreRepository) Update(ctx context.Context, u *models.User) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		taken, err := r.claimed(tx, u)
		if err != nil {
			return err
		}
		if taken {
			return httperr.ErrBusiness(httperr.CodeDuplicateAccount)
		}

		return tx.Update(r.users().Doc(u.ID), []firestore.Update{
			{Path: "name", Value: u.Name},
			{Path: "phone", Value: u.Phone},
			{Path: "email", Value: u.Email},
			{Path: "address", Value: u.Address},
			{Path: "role", Value: u.Role},
			{Path: "updatedAt", Value: u.UpdatedAt},
		})
	})
	if err != nil {
		if httperr.CodeOf(err) != "" {
			return err
		}
		return httperr.FromGRPC(err, httperr.CodeUserNotFound)
	}
	return nil
}

// --------------------------------------------------
// Credentials
// --------------------------------------------------

func (r *UserFirestoreRepository) GetCredential(ctx context.Context, userID string) (*models.Credential, error) {
	doc, err := r.client.Collection(passwordsCollection).Doc(userID).Get(ctx)
	if err != nil {
		return nil, httperr.FromGRPC(err, httperr.CodeUserNotFound)
	}

	var cred models.Credential
	if err := doc.DataTo(&cred); err != nil {
		return nil, err
	}
	cred.UserID = userID
	return &cred, nil
}

func (r *UserFirestoreRepository) SetCredential(ctx context.Context, cred *models.Credential) error {
	if cred.UpdatedAt.IsZero() {
		cred.UpdatedAt = time.Now()
	}
	_, err := r.client.Collection(passwordsCollection).Doc(cred.UserID).Set(ctx, cred)
	return httperr.FromGRPC(err, "")
}

var _ user.Repository = (*UserFirestoreRepository)(nil)
