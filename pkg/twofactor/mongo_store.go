package twofactor

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/admin2fa/pkg/secrets"
)

// DefaultCollection is the collection used when none is configured.
const DefaultCollection = "admin_totp_credentials"

// credentialDocument keys the record by account so that at most one
// credential exists per account; the unique _id index turns a concurrent
// pending insert over an active record into a duplicate key error.
type credentialDocument struct {
	AccountID        string     `bson:"_id"`
	CredentialID     string     `bson:"credential_id"`
	Secret           []byte     `bson:"secret"` // sealed with secrets.Sealer
	Status           string     `bson:"status"`
	LastAcceptedStep int64      `bson:"last_accepted_step"`
	CreatedAt        time.Time  `bson:"created_at"`
	ConfirmedAt      *time.Time `bson:"confirmed_at,omitempty"`
}

// MongoStore persists credentials in MongoDB with secrets sealed at rest.
type MongoStore struct {
	coll   *mongo.Collection
	sealer *secrets.Sealer
}

// NewMongoStore creates a store on the given collection.
func NewMongoStore(db *mongo.Database, collection string, sealer *secrets.Sealer) *MongoStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &MongoStore{coll: db.Collection(collection), sealer: sealer}
}

// EnsureIndexes creates the index used by DeletePendingBefore.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}

// Get loads the account's credential and opens its sealed secret.
func (s *MongoStore) Get(ctx context.Context, accountID string) (Credential, error) {
	var doc credentialDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": accountID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Credential{}, ErrCredentialNotFound
		}
		return Credential{}, err
	}

	secret, err := s.sealer.Open(accountID, doc.Secret)
	if err != nil {
		return Credential{}, err
	}

	cred := Credential{
		ID:               doc.CredentialID,
		AccountID:        doc.AccountID,
		Secret:           secret,
		Status:           Status(doc.Status),
		LastAcceptedStep: doc.LastAcceptedStep,
		CreatedAt:        doc.CreatedAt,
	}
	if doc.ConfirmedAt != nil {
		cred.ConfirmedAt = *doc.ConfirmedAt
	}
	return cred, nil
}

// SavePending seals the secret and upserts cred over a pending document.
// An active document makes the upsert collide on _id, reported as
// ErrAlreadyEnrolled.
func (s *MongoStore) SavePending(ctx context.Context, cred Credential) error {
	sealed, err := s.sealer.Seal(cred.AccountID, cred.Secret)
	if err != nil {
		return err
	}
	doc := credentialDocument{
		AccountID:        cred.AccountID,
		CredentialID:     cred.ID,
		Secret:           sealed,
		Status:           string(StatusPending),
		LastAcceptedStep: cred.LastAcceptedStep,
		CreatedAt:        cred.CreatedAt,
	}

	filter := bson.M{"_id": cred.AccountID, "status": string(StatusPending)}
	_, err = s.coll.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyEnrolled
		}
		return err
	}
	return nil
}

// Activate promotes the pending credential credentialID in a single
// conditional update; a credential created at or before createdAfter is
// left pending.
func (s *MongoStore) Activate(ctx context.Context, accountID, credentialID string, createdAfter, confirmedAt time.Time, step int64) error {
	filter := bson.M{
		"_id":           accountID,
		"credential_id": credentialID,
		"status":        string(StatusPending),
		"created_at":    bson.M{"$gt": createdAfter},
	}
	update := bson.M{"$set": bson.M{
		"status":             string(StatusActive),
		"confirmed_at":       confirmedAt,
		"last_accepted_step": step,
	}}
	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrCredentialNotFound
	}
	return nil
}

// AdvanceStep records step on the active credential credentialID only while
// the stored step is lower.
func (s *MongoStore) AdvanceStep(ctx context.Context, accountID, credentialID string, step int64) error {
	filter := bson.M{
		"_id":                accountID,
		"credential_id":      credentialID,
		"status":             string(StatusActive),
		"last_accepted_step": bson.M{"$lt": step},
	}
	res, err := s.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"last_accepted_step": step}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStepConflict
	}
	return nil
}

// Delete removes the credential document in any state.
func (s *MongoStore) Delete(ctx context.Context, accountID string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": accountID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrCredentialNotFound
	}
	return nil
}

// DeletePending removes the document only while it holds the given pending credential.
func (s *MongoStore) DeletePending(ctx context.Context, accountID, credentialID string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{
		"_id":           accountID,
		"credential_id": credentialID,
		"status":        string(StatusPending),
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrCredentialNotFound
	}
	return nil
}

// DeletePendingBefore removes pending documents created before cutoff.
func (s *MongoStore) DeletePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{
		"status":     string(StatusPending),
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
