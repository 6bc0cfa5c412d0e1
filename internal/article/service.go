// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package article implements the save pipeline: the one path through
// which every article write flows. Each save verifies the edit lease and
// the caller's permission, derives slug and content metrics, decides
// whether to record a revision, and commits all fields in one update.
package article

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ngucho/scoop-afrique-sub000/internal/access"
	"github.com/ngucho/scoop-afrique-sub000/internal/editlock"
	"github.com/ngucho/scoop-afrique-sub000/internal/models"
	"github.com/ngucho/scoop-afrique-sub000/internal/richtext"
	"github.com/ngucho/scoop-afrique-sub000/internal/slug"
	"github.com/ngucho/scoop-afrique-sub000/internal/store"
)

// Service orchestrates article writes across the stores and the lock
// manager.
type Service struct {
	articles      *store.ArticleStore
	revisions     *store.RevisionStore
	collaborators *store.CollaboratorStore
	comments      *store.CommentStore
	users         *store.UserStore
	locks         *editlock.Manager
}

// NewService wires the save pipeline with its dependencies.
func NewService(
	articles *store.ArticleStore,
	revisions *store.RevisionStore,
	collaborators *store.CollaboratorStore,
	comments *store.CommentStore,
	users *store.UserStore,
	locks *editlock.Manager,
) *Service {
	return &Service{
		articles:      articles,
		revisions:     revisions,
		collaborators: collaborators,
		comments:      comments,
		users:         users,
		locks:         locks,
	}
}

// CreateInput carries the fields of a brand-new article.
type CreateInput struct {
	Title       string
	Excerpt     *string
	Content     json.RawMessage
	CategoryID  *uuid.UUID
	Tags        []string
	Slug        string
	Status      models.ArticleStatus
	ScheduledAt *time.Time
}

// Patch carries the client-supplied fields of a save. Nil fields are
// left unchanged. Word count, reading time and version are derived
// server-side and have no place here.
type Patch struct {
	Title       *string
	Excerpt     *string
	Content     json.RawMessage
	CategoryID  *uuid.UUID
	Tags        []string
	Slug        *string
	Status      *models.ArticleStatus
	ScheduledAt *time.Time
}

// Create inserts a new article. Creation bypasses locking entirely:
// nobody else can be editing a document that does not exist yet.
func (s *Service) Create(ctx context.Context, in CreateInput, p access.Principal) (*models.Article, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !status.Valid() {
		return nil, &ValidationError{Field: "status", Reason: "unknown status"}
	}

	a := &models.Article{
		Title:       title,
		Excerpt:     in.Excerpt,
		Content:     in.Content,
		CategoryID:  in.CategoryID,
		AuthorID:    p.ID,
		Tags:        in.Tags,
		Status:      status,
		ScheduledAt: in.ScheduledAt,
		LastSavedBy: &p.ID,
	}

	if status == models.StatusPublished {
		if !access.CanPublish(p) {
			return nil, ErrForbidden
		}
		now := time.Now()
		a.PublishedAt = &now
	}

	candidate := in.Slug
	if candidate == "" {
		candidate = title
	}
	unique, err := s.uniqueSlug(ctx, slug.Generate(candidate), uuid.Nil)
	if err != nil {
		return nil, err
	}
	a.Slug = unique

	a.WordCount = richtext.WordCount(a.Content)
	a.ReadingTime = richtext.ReadingTime(a.WordCount)

	return s.articles.Create(a)
}

// Save runs one article write through the pipeline. The caller must hold
// the active edit lease; a save without it comes back as a LockedError
// carrying the competing holder, never as a silent overwrite.
func (s *Service) Save(ctx context.Context, articleID uuid.UUID, patch Patch, p access.Principal, intent Intent) (*models.Article, error) {
	a, err := s.articles.FindByID(articleID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}

	// 1. Lock. Checked lazily against the lease store on every save, so
	// a takeover after expiry surfaces here as a conflict.
	holder, err := s.locks.Holder(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if holder == nil {
		return nil, &LockedError{}
	}
	if holder.HolderID != p.ID {
		return nil, &LockedError{HolderID: holder.HolderID, HolderName: holder.HolderName}
	}

	// 2. Permission. Lock possession alone never implies permission.
	collabs, err := s.collaborators.ListByArticle(articleID)
	if err != nil {
		return nil, err
	}
	if !access.CanEdit(p, a, collabs) {
		return nil, ErrForbidden
	}

	priorStatus := a.Status
	if err := s.applyPatch(ctx, a, patch); err != nil {
		return nil, err
	}

	if intent == IntentPublish {
		a.Status = models.StatusPublished
	}
	if a.Status == models.StatusPublished && priorStatus != models.StatusPublished && !access.CanPublish(p) {
		return nil, ErrForbidden
	}

	// 3. Metrics follow content on every save that touches it.
	if patch.Content != nil {
		a.WordCount = richtext.WordCount(a.Content)
		a.ReadingTime = richtext.ReadingTime(a.WordCount)
	}

	// 4. Revision policy by intent. The snapshot transaction is the sole
	// writer of the version counter; the update below leaves it alone, so
	// an overlapping snapshot on another connection can never be undone
	// by this request's stale read.
	if snapshotNeeded(intent) {
		if _, err := s.revisions.Snapshot(a.ID, a.Title, a.Excerpt, a.Content, p.ID); err != nil {
			if err == sql.ErrNoRows {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	stampPublication(a, priorStatus, time.Now())
	a.LastSavedBy = &p.ID

	if err := s.articles.Update(a); err != nil {
		return nil, err
	}
	return s.articles.FindByID(a.ID)
}

// Publish is a manual save that also moves the article into the
// published state, gated on editor tier.
func (s *Service) Publish(ctx context.Context, articleID uuid.UUID, patch Patch, p access.Principal) (*models.Article, error) {
	if !access.CanPublish(p) {
		return nil, ErrForbidden
	}
	return s.Save(ctx, articleID, patch, p, IntentPublish)
}

// Delete removes an article and everything hanging off it. Requires
// manager tier regardless of authorship.
func (s *Service) Delete(ctx context.Context, articleID uuid.UUID, p access.Principal) error {
	a, err := s.articles.FindByID(articleID)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrNotFound
	}
	if !access.CanDelete(p) {
		return ErrForbidden
	}
	if err := s.articles.Delete(articleID); err != nil {
		return err
	}
	// The edit lease, if any, is now pointless; drop it best-effort.
	_ = s.locks.Release(ctx, articleID, p)
	return nil
}

// Get returns an article with its collaborator list resolved.
func (s *Service) Get(ctx context.Context, articleID uuid.UUID) (*models.Article, []models.Collaborator, error) {
	a, err := s.articles.FindByID(articleID)
	if err != nil {
		return nil, nil, err
	}
	if a == nil {
		return nil, nil, ErrNotFound
	}
	collabs, err := s.collaborators.ListByArticle(articleID)
	if err != nil {
		return nil, nil, err
	}
	return a, collabs, nil
}

// List returns all articles for the editorial workspace.
func (s *Service) List(ctx context.Context) ([]models.Article, error) {
	return s.articles.List()
}

// ListRevisions returns one page of an article's version history,
// newest first.
func (s *Service) ListRevisions(ctx context.Context, articleID uuid.UUID, page, perPage int) ([]models.Revision, int, error) {
	a, err := s.articles.FindByID(articleID)
	if err != nil {
		return nil, 0, err
	}
	if a == nil {
		return nil, 0, ErrNotFound
	}
	return s.revisions.ListByArticle(articleID, page, perPage)
}

// RestoreRevision returns the stored fields of one revision for the
// caller to feed back into a fresh save with IntentRestore. History is
// never rewritten: restoring records a new snapshot on the next save.
func (s *Service) RestoreRevision(ctx context.Context, articleID uuid.UUID, version int) (*models.Revision, error) {
	rev, err := s.revisions.FindByVersion(articleID, version)
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return nil, ErrNotFound
	}
	return rev, nil
}

// AddCollaborator grants a user edit access to one article.
func (s *Service) AddCollaborator(ctx context.Context, articleID, userID uuid.UUID, role models.CollaboratorRole, p access.Principal) (*models.Collaborator, error) {
	a, err := s.articles.FindByID(articleID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	if !access.CanManageCollaborators(p, a) {
		return nil, ErrForbidden
	}
	if !role.Valid() {
		return nil, &ValidationError{Field: "role", Reason: "unknown collaborator role"}
	}
	u, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &ValidationError{Field: "user_id", Reason: "no such user"}
	}
	return s.collaborators.Add(articleID, userID, role)
}

// RemoveCollaborator revokes edit access. Removing a user who was never
// a collaborator is a no-op.
func (s *Service) RemoveCollaborator(ctx context.Context, articleID, userID uuid.UUID, p access.Principal) error {
	a, err := s.articles.FindByID(articleID)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrNotFound
	}
	if !access.CanManageCollaborators(p, a) {
		return ErrForbidden
	}
	return s.collaborators.Remove(articleID, userID)
}

// AddEditorialComment attaches an internal note to an article. Anyone
// who may edit the article may comment on it.
func (s *Service) AddEditorialComment(ctx context.Context, articleID uuid.UUID, body string, p access.Principal) (*models.EditorialComment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, &ValidationError{Field: "body", Reason: "must not be empty"}
	}
	a, err := s.articles.FindByID(articleID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	collabs, err := s.collaborators.ListByArticle(articleID)
	if err != nil {
		return nil, err
	}
	if !access.CanEdit(p, a, collabs) {
		return nil, ErrForbidden
	}
	return s.comments.CreateEditorial(articleID, p.ID, body)
}

// ListEditorialComments returns an article's internal discussion,
// oldest first, gated the same way as commenting.
func (s *Service) ListEditorialComments(ctx context.Context, articleID uuid.UUID, p access.Principal) ([]models.EditorialComment, error) {
	a, err := s.articles.FindByID(articleID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	collabs, err := s.collaborators.ListByArticle(articleID)
	if err != nil {
		return nil, err
	}
	if !access.CanEdit(p, a, collabs) {
		return nil, ErrForbidden
	}
	return s.comments.ListEditorialByArticle(articleID)
}

// ResolveEditorialComment closes a discussion thread entry.
func (s *Service) ResolveEditorialComment(ctx context.Context, commentID uuid.UUID, p access.Principal) error {
	c, err := s.comments.FindEditorialByID(commentID)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrNotFound
	}
	a, err := s.articles.FindByID(c.ArticleID)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrNotFound
	}
	collabs, err := s.collaborators.ListByArticle(c.ArticleID)
	if err != nil {
		return err
	}
	if !access.CanEdit(p, a, collabs) {
		return ErrForbidden
	}
	return s.comments.ResolveEditorial(commentID)
}

// SubmitReaderComment files a public comment on a published article into
// the moderation queue.
func (s *Service) SubmitReaderComment(ctx context.Context, articleID uuid.UUID, authorName, body string) (*models.ReaderComment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, &ValidationError{Field: "body", Reason: "must not be empty"}
	}
	a, err := s.articles.FindByID(articleID)
	if err != nil {
		return nil, err
	}
	if a == nil || !a.IsPublished() {
		return nil, ErrNotFound
	}
	return s.comments.CreateReader(articleID, authorName, body)
}

// ModerateReaderComment approves or rejects a pending reader comment.
func (s *Service) ModerateReaderComment(ctx context.Context, commentID uuid.UUID, status models.ModerationStatus, p access.Principal) error {
	if !access.CanModerate(p) {
		return ErrForbidden
	}
	if status != models.ModerationApproved && status != models.ModerationRejected {
		return &ValidationError{Field: "status", Reason: "must be approved or rejected"}
	}
	c, err := s.comments.FindReaderByID(commentID)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrNotFound
	}
	return s.comments.Moderate(commentID, status)
}

// View serves a published article to the public feed and bumps its view
// counter. The increment is fire-and-forget: it never fails the read.
func (s *Service) View(ctx context.Context, articleSlug string) (*models.Article, error) {
	a, err := s.articles.FindPublishedBySlug(articleSlug)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	s.articles.IncrementViewCount(a.ID)
	return a, nil
}

// applyPatch folds the client-supplied fields into the article,
// re-resolving the slug when it is touched.
func (s *Service) applyPatch(ctx context.Context, a *models.Article, patch Patch) error {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return &ValidationError{Field: "title", Reason: "must not be empty"}
		}
		a.Title = title
	}
	if patch.Excerpt != nil {
		a.Excerpt = patch.Excerpt
	}
	if patch.Content != nil {
		a.Content = patch.Content
	}
	if patch.CategoryID != nil {
		a.CategoryID = patch.CategoryID
	}
	if patch.Tags != nil {
		a.Tags = patch.Tags
	}
	if patch.ScheduledAt != nil {
		a.ScheduledAt = patch.ScheduledAt
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return &ValidationError{Field: "status", Reason: "unknown status"}
		}
		a.Status = *patch.Status
	}
	if patch.Slug != nil {
		candidate := *patch.Slug
		if candidate == "" {
			candidate = a.Title
		}
		generated := slug.Generate(candidate)
		if generated != a.Slug {
			unique, err := s.uniqueSlug(ctx, generated, a.ID)
			if err != nil {
				return err
			}
			a.Slug = unique
		}
	}
	return nil
}

// uniqueSlug resolves collisions against live articles, excluding the
// article being updated.
func (s *Service) uniqueSlug(ctx context.Context, candidate string, excludeID uuid.UUID) (string, error) {
	return slug.Unique(ctx, candidate, func(ctx context.Context, c string) (bool, error) {
		return s.articles.SlugExists(c, excludeID)
	})
}

// stampPublication sets published_at exactly once: on the first
// transition into the published state. Later edits, republished drafts
// included, never reset it.
func stampPublication(a *models.Article, prior models.ArticleStatus, now time.Time) {
	if a.Status == models.StatusPublished && prior != models.StatusPublished && a.PublishedAt == nil {
		a.PublishedAt = &now
	}
}
