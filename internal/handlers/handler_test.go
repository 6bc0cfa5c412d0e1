// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable;
// Valkey is replaced by an in-process miniredis.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/ngucho/scoop-afrique-sub000/internal/access"
	"github.com/ngucho/scoop-afrique-sub000/internal/article"
	"github.com/ngucho/scoop-afrique-sub000/internal/cache"
	"github.com/ngucho/scoop-afrique-sub000/internal/database"
	"github.com/ngucho/scoop-afrique-sub000/internal/editlock"
	"github.com/ngucho/scoop-afrique-sub000/internal/middleware"
	"github.com/ngucho/scoop-afrique-sub000/internal/models"
	"github.com/ngucho/scoop-afrique-sub000/internal/notify"
	"github.com/ngucho/scoop-afrique-sub000/internal/session"
	"github.com/ngucho/scoop-afrique-sub000/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "scoop")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "scoop")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB       *sql.DB
	Valkey   *redis.Client
	Sessions *session.Store
	Users    *store.UserStore
	Articles *store.ArticleStore
	Comments *store.CommentStore
	Locks    *editlock.Manager
	Feed     *cache.FeedCache
	Service  *article.Service

	AuthH     *Auth
	ArticlesH *Articles
	LocksH    *Locks
	CollabH   *Collaborators
	CommentsH *Comments
	NotifyH   *Notifications
	PublicH   *Public
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	mr := miniredis.RunT(t)
	vk := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { vk.Close() })

	sessions := session.NewStore(vk, false)
	locks := editlock.NewManager(vk, 5*time.Minute)
	feed := cache.NewFeedCache(vk, time.Minute)

	users := store.NewUserStore(db)
	articles := store.NewArticleStore(db)
	revisions := store.NewRevisionStore(db)
	collaborators := store.NewCollaboratorStore(db)
	comments := store.NewCommentStore(db)
	categories := store.NewCategoryStore(db)

	svc := article.NewService(articles, revisions, collaborators, comments, users, locks)
	agg := notify.NewAggregator(comments)

	return &testEnv{
		DB:       db,
		Valkey:   vk,
		Sessions: sessions,
		Users:    users,
		Articles: articles,
		Comments: comments,
		Locks:    locks,
		Feed:     feed,
		Service:  svc,

		AuthH:     NewAuth(sessions, users),
		ArticlesH: NewArticles(svc, feed),
		LocksH:    NewLocks(locks),
		CollabH:   NewCollaborators(svc),
		CommentsH: NewComments(svc),
		NotifyH:   NewNotifications(agg),
		PublicH:   NewPublic(svc, articles, categories, comments, feed),
	}
}

// testUser creates a throwaway staff account and its session data.
func testUser(t *testing.T, env *testEnv, email string, role models.Role) *session.Data {
	t.Helper()
	u, err := env.Users.Create(email, "test-password", "Test "+string(role), role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE id = $1", u.ID) })
	return &session.Data{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	}
}

// withSession attaches session data to a request context.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.SessionKey, sess))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, _ := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// testArticle creates an article owned by the given session's user.
func testArticle(t *testing.T, env *testEnv, sess *session.Data, title string) *models.Article {
	t.Helper()
	a, err := env.Service.Create(context.Background(), article.CreateInput{Title: title},
		principalOf(sess))
	if err != nil {
		t.Fatalf("create test article: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM articles WHERE id = $1", a.ID) })
	return a
}

func principalOf(sess *session.Data) access.Principal {
	return access.Principal{
		ID:          sess.UserID,
		DisplayName: sess.DisplayName,
		Role:        sess.Role,
	}
}
