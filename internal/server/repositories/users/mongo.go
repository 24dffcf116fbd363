package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/juju/errors"
	"github.com/juju/mgo/v3"
	"github.com/juju/mgo/v3/bson"
)

// CollectionName is the Mongo collection holding user documents.
const CollectionName = "users"

type userDoc struct {
	ID           bson.ObjectId `bson:"_id"`
	UserName     string        `bson:"username"`
	PasswordHash string        `bson:"password_hash"`
	CreatedAt    time.Time     `bson:"created_at"`
}

func (d *userDoc) toModel() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		UserName:     d.UserName,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

// MongoRepository keeps users in a Mongo collection. Each call works on a
// copy of the root session.
type MongoRepository struct {
	session *mgo.Session
	dbName  string
}

func NewMongoRepository(session *mgo.Session, dbName string) *MongoRepository {
	return &MongoRepository{session: session, dbName: dbName}
}

func (r *MongoRepository) collection() (*mgo.Collection, func()) {
	s := r.session.Copy()
	return s.DB(r.dbName).C(CollectionName), s.Close
}

// EnsureIndexes creates the unique username index.
func (r *MongoRepository) EnsureIndexes() error {
	c, closer := r.collection()
	defer closer()

	err := c.EnsureIndex(mgo.Index{Key: []string{"username"}, Unique: true})
	return errors.Annotate(err, "ensuring users indexes")
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	c, closer := r.collection()
	defer closer()

	doc := userDoc{
		ID:           bson.NewObjectId(),
		UserName:     user.UserName,
		PasswordHash: user.PasswordHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := c.Insert(doc); err != nil {
		if mgo.IsDup(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, errors.Annotatef(err, "inserting user %q", user.UserName)
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = doc.CreatedAt
	return user, nil
}

func (r *MongoRepository) GetByUsername(ctx context.Context, userName string) (*models.User, error) {
	return r.findOne(bson.M{"username": userName}, userName)
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if !bson.IsObjectIdHex(id) {
		return nil, common.ErrorNotFound
	}
	return r.findOne(bson.M{"_id": bson.ObjectIdHex(id)}, id)
}

func (r *MongoRepository) findOne(query bson.M, key string) (*models.User, error) {
	c, closer := r.collection()
	defer closer()

	var doc userDoc
	err := c.Find(query).One(&doc)
	if err == mgo.ErrNotFound {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, errors.Annotatef(err, "getting user %q", key)
	}
	return doc.toModel(), nil
}
