package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/softlexhq/softlex/internal/app/system/normalize"
	"github.com/softlexhq/softlex/internal/app/system/status"
	"github.com/softlexhq/softlex/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "admin"|"user"`)
	errBadStatus      = errors.New(`status must be "active"|"blocked"`)
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	// Normalize core fields
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.EmailCI = normalize.Email(u.Email)
	u.AuthMethod = normalize.AuthMethod(u.AuthMethod)
	if u.Status == "" {
		u.Status = status.Active
	}
	if u.Role == "" {
		u.Role = "user"
	}

	// Validate role
	switch u.Role {
	case "admin", "user":
		// ok
	default:
		return models.User{}, errBadRole
	}

	// Validate status
	if !status.IsValid(u.Status) {
		return models.User{}, errBadStatus
	}

	// Timestamps
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	// Insert
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Update holds the fields that can be updated for a user.
// Empty fields are left unchanged.
type Update struct {
	FullName string
	Email    string
	Role     string
	Status   string
}

// Update modifies a user's mutable fields and refreshes UpdatedAt.
// Returns ErrDuplicateEmail if the email already exists for another user.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if upd.FullName != "" {
		set["full_name"] = normalize.Name(upd.FullName)
		set["full_name_ci"] = text.Fold(upd.FullName)
	}
	if upd.Email != "" {
		set["email"] = normalize.Email(upd.Email)
		set["email_ci"] = normalize.Email(upd.Email)
	}
	if upd.Role != "" {
		if upd.Role != "admin" && upd.Role != "user" {
			return errBadRole
		}
		set["role"] = upd.Role
	}
	if upd.Status != "" {
		if !status.IsValid(upd.Status) {
			return errBadStatus
		}
		set["status"] = upd.Status
	}

	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// SetPasswordHash stores a new bcrypt hash for the user.
func (s *Store) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}})
	return err
}

// SetStatus blocks or unblocks a user.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	if !status.IsValid(st) {
		return errBadStatus
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     st,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// Delete removes a user by ID. Returns the number of documents deleted (0 or 1).
// Membership cleanup is the caller's responsibility (see memberstore.DeleteByUser).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListPage is one page of the user list plus the total match count.
type ListPage struct {
	Users []models.User
	Total int64
}

// List returns a page of users, optionally filtered by a case-insensitive
// name/email prefix search, sorted by folded full name.
func (s *Store) List(ctx context.Context, search string, skip, limit int64) (ListPage, error) {
	filter := bson.M{}
	if q := text.Fold(search); q != "" {
		filter["$or"] = bson.A{
			bson.M{"full_name_ci": bson.M{"$regex": "^" + regexQuote(q)}},
			bson.M{"email_ci": bson.M{"$regex": "^" + regexQuote(q)}},
		}
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return ListPage{}, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return ListPage{}, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return ListPage{}, err
	}
	return ListPage{Users: users, Total: total}, nil
}

// regexQuote escapes regex metacharacters so search input is treated literally.
func regexQuote(s string) string {
	const meta = `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(meta); j++ {
			if s[i] == meta[j] {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}
