package repomanager

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/users"
	"github.com/juju/errors"
	"github.com/juju/mgo/v3"
)

const (
	defaultMongoDatabase = "gophblog"
	mongoDialTimeout     = 10 * time.Second
)

// MongoRepositoryManager vends document-store repositories over one root
// session. "Migrations" here means ensuring the indexes exist.
type MongoRepositoryManager struct {
	session *mgo.Session
	users   *users.MongoRepository
	posts   *posts.MongoRepository
}

// OpenMongo dials the server named by a mongodb:// dsn. The database is taken
// from the dsn path and defaults to "gophblog".
func OpenMongo(dsn string) (*MongoRepositoryManager, error) {
	info, err := mgo.ParseURL(dsn)
	if err != nil {
		return nil, errors.Annotate(err, "parsing mongo dsn")
	}
	info.Timeout = mongoDialTimeout

	session, err := mgo.DialWithInfo(info)
	if err != nil {
		return nil, errors.Annotate(err, "dialing mongo")
	}
	session.SetMode(mgo.Monotonic, true)

	dbName := info.Database
	if dbName == "" {
		dbName = defaultMongoDatabase
	}
	return NewMongoRepositoryManager(session, dbName), nil
}

func NewMongoRepositoryManager(session *mgo.Session, dbName string) *MongoRepositoryManager {
	return &MongoRepositoryManager{
		session: session,
		users:   users.NewMongoRepository(session, dbName),
		posts:   posts.NewMongoRepository(session, dbName),
	}
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MongoRepositoryManager) Posts() posts.Repository {
	return m.posts
}

func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	if err := m.users.EnsureIndexes(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(m.posts.EnsureIndexes())
}

func (m *MongoRepositoryManager) Close() error {
	m.session.Close()
	return nil
}
