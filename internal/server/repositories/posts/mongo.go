package posts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/juju/errors"
	"github.com/juju/mgo/v3"
	"github.com/juju/mgo/v3/bson"
)

// CollectionName is the Mongo collection holding post documents.
const CollectionName = "posts"

type ownerDoc struct {
	ID       string `bson:"_id"`
	UserName string `bson:"username"`
}

type postDoc struct {
	ID            bson.ObjectId `bson:"_id"`
	Title         string        `bson:"title"`
	Body          string        `bson:"body"`
	Tags          []string      `bson:"tags"`
	PublishedDate time.Time     `bson:"published_date"`
	User          ownerDoc      `bson:"user"`
}

func (d *postDoc) toModel() *models.Post {
	return &models.Post{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Body:          d.Body,
		Tags:          d.Tags,
		PublishedDate: d.PublishedDate,
		Owner:         models.Identity{ID: d.User.ID, UserName: d.User.UserName},
	}
}

// MongoRepository keeps posts as single documents with the tags and the
// owner embedded.
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

// EnsureIndexes creates the indexes used by listings.
func (r *MongoRepository) EnsureIndexes() error {
	c, closer := r.collection()
	defer closer()

	for _, key := range [][]string{{"-published_date"}, {"tags"}, {"user.username"}} {
		if err := c.EnsureIndexKey(key...); err != nil {
			return errors.Annotatef(err, "ensuring posts index %v", key)
		}
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	c, closer := r.collection()
	defer closer()

	doc := postDoc{
		ID:            bson.NewObjectId(),
		Title:         post.Title,
		Body:          post.Body,
		Tags:          post.Tags,
		PublishedDate: post.PublishedDate,
		User:          ownerDoc{ID: post.Owner.ID, UserName: post.Owner.UserName},
	}
	if err := c.Insert(doc); err != nil {
		return nil, errors.Annotatef(err, "inserting post %q", post.Title)
	}
	post.ID = doc.ID.Hex()
	return post, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if !bson.IsObjectIdHex(id) {
		return nil, common.ErrorNotFound
	}

	c, closer := r.collection()
	defer closer()

	var doc postDoc
	err := c.FindId(bson.ObjectIdHex(id)).One(&doc)
	if err == mgo.ErrNotFound {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, errors.Annotatef(err, "getting post %q", id)
	}
	return doc.toModel(), nil
}

func filterQuery(filter models.PostFilter) bson.M {
	q := bson.M{}
	if filter.UserName != "" {
		q["user.username"] = filter.UserName
	}
	if filter.Tag != "" {
		q["tags"] = filter.Tag
	}
	return q
}

func (r *MongoRepository) List(ctx context.Context, filter models.PostFilter, offset, limit int) ([]*models.Post, error) {
	c, closer := r.collection()
	defer closer()

	var docs []postDoc
	err := c.Find(filterQuery(filter)).
		Sort("-published_date", "-_id").
		Skip(offset).
		Limit(limit).
		All(&docs)
	if err != nil {
		return nil, errors.Annotate(err, "listing posts")
	}

	result := make([]*models.Post, 0, len(docs))
	for i := range docs {
		result = append(result, docs[i].toModel())
	}
	return result, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter models.PostFilter) (int, error) {
	c, closer := r.collection()
	defer closer()

	n, err := c.Find(filterQuery(filter)).Count()
	if err != nil {
		return 0, errors.Annotate(err, "counting posts")
	}
	return n, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	if !bson.IsObjectIdHex(id) {
		return nil, common.ErrorNotFound
	}
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Body != nil {
		set["body"] = *patch.Body
	}
	if patch.Tags != nil {
		set["tags"] = patch.Tags
	}

	c, closer := r.collection()
	defer closer()

	err := c.UpdateId(bson.ObjectIdHex(id), bson.M{"$set": set})
	if err == mgo.ErrNotFound {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, errors.Annotatef(err, "updating post %q", id)
	}
	return r.GetByID(ctx, id)
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	if !bson.IsObjectIdHex(id) {
		return common.ErrorNotFound
	}

	c, closer := r.collection()
	defer closer()

	err := c.RemoveId(bson.ObjectIdHex(id))
	if err == mgo.ErrNotFound {
		return common.ErrorNotFound
	}
	return errors.Annotatef(err, "deleting post %q", id)
}
