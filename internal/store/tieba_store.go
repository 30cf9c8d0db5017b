package store

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tiebago/tieba/internal/api"
	"github.com/tiebago/tieba/internal/logging"
	"github.com/tiebago/tieba/internal/models"
	"github.com/tiebago/tieba/internal/normalize"
)

const (
	// maxSearchHistory caps the remembered search terms.
	maxSearchHistory = 10
	// hotListSize is how many entries the hot and recommended lists hold.
	hotListSize = 10

	sortHot         = "-member_count"
	sortRecommended = "-post_count"
)

// HistoryStore persists search terms across sessions. Implementations may
// fail independently of the in-memory ring; persistence errors are logged
// and otherwise ignored.
type HistoryStore interface {
	Add(term string) error
	Recent(limit int) ([]string, error)
	Clear() error
}

// TiebaStore synchronizes tiebas, posts and replies with the backend.
type TiebaStore struct {
	client   *api.Client
	notifier Notifier
	history  HistoryStore
	log      zerolog.Logger

	// Tiebas holds the browsed tieba list.
	Tiebas *Collection[models.Tieba]
	// Posts holds the post list of the current tieba (or the feed).
	Posts *Collection[models.Post]
	// Replies holds the replies of the current post.
	Replies *Collection[models.PostReply]

	mu            sync.RWMutex
	currentTieba  *models.Tieba
	currentPost   *models.Post
	hot           []models.Tieba
	recommended   []models.Tieba
	searchHistory []string
}

// NewTiebaStore creates a tieba store backed by the given transport.
// history may be nil; search terms are then kept in memory only.
func NewTiebaStore(client *api.Client, notifier Notifier, history HistoryStore) *TiebaStore {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	s := &TiebaStore{
		client:   client,
		notifier: notifier,
		history:  history,
		log:      logging.Component("store.tieba"),

		Tiebas:  NewCollection(func(t models.Tieba) int64 { return t.ID }),
		Posts:   NewCollection(func(p models.Post) int64 { return p.ID }),
		Replies: NewCollection(func(r models.PostReply) int64 { return r.ID }),
	}
	if history != nil {
		if terms, err := history.Recent(maxSearchHistory); err == nil {
			s.searchHistory = terms
		} else {
			s.log.Debug().Err(err).Msg("loading search history")
		}
	}
	return s
}

// CurrentTieba returns the tieba selected by the last detail fetch.
func (s *TiebaStore) CurrentTieba() *models.Tieba {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentTieba == nil {
		return nil
	}
	t := *s.currentTieba
	return &t
}

// CurrentPost returns the post selected by the last detail fetch.
func (s *TiebaStore) CurrentPost() *models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentPost == nil {
		return nil
	}
	p := *s.currentPost
	return &p
}

// HotTiebas returns the cached hot list.
func (s *TiebaStore) HotTiebas() []models.Tieba {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Tieba(nil), s.hot...)
}

// RecommendedTiebas returns the cached recommended list.
func (s *TiebaStore) RecommendedTiebas() []models.Tieba {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Tieba(nil), s.recommended...)
}

// SearchHistory returns recent search terms, newest first.
func (s *TiebaStore) SearchHistory() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.searchHistory...)
}

// GetTiebaList fetches one page of tiebas for browsing.
func (s *TiebaStore) GetTiebaList(ctx context.Context, category string, page, pageSize int) Result[[]models.Tieba] {
	s.Tiebas.setLoading(true)
	defer s.Tiebas.setLoading(false)

	resp, err := s.client.Tiebas(ctx, api.TiebaQuery{
		Page:     page,
		PageSize: pageSize,
		Category: category,
	})
	if err != nil {
		return reportFailure[[]models.Tieba](s.notifier, s.log, err, "failed to fetch tiebas")
	}

	items := make([]models.Tieba, 0, len(resp.Results))
	for _, raw := range resp.Results {
		items = append(items, normalize.Tieba(raw))
	}
	s.Tiebas.ApplyPage(page, items, resp.HasMore())
	return okPage(items, resp.HasMore())
}

// GetTiebaDetail fetches one tieba and makes it current.
func (s *TiebaStore) GetTiebaDetail(ctx context.Context, id int64) Result[models.Tieba] {
	raw, err := s.client.TiebaDetail(ctx, id)
	if err != nil {
		return reportFailure[models.Tieba](s.notifier, s.log, err, "failed to fetch tieba details")
	}

	tieba := normalize.Tieba(raw)
	s.mu.Lock()
	s.currentTieba = &tieba
	s.mu.Unlock()
	return ok(tieba)
}

// SearchTiebas searches tiebas by keyword and records the term in the
// search history. Page 1 replaces the browse collection.
func (s *TiebaStore) SearchTiebas(ctx context.Context, params models.SearchTiebaParams) Result[[]models.Tieba] {
	s.Tiebas.setLoading(true)
	defer s.Tiebas.setLoading(false)

	resp, err := s.client.Tiebas(ctx, api.TiebaQuery{
		Page:     params.Page,
		PageSize: params.PageSize,
		Category: params.Category,
		Search:   params.Keyword,
	})
	if err != nil {
		return reportFailure[[]models.Tieba](s.notifier, s.log, err, "search failed")
	}

	s.rememberSearch(params.Keyword)

	items := make([]models.Tieba, 0, len(resp.Results))
	for _, raw := range resp.Results {
		items = append(items, normalize.Tieba(raw))
	}
	s.Tiebas.ApplyPage(params.Page, items, resp.HasMore())
	return okPage(items, resp.HasMore())
}

// rememberSearch moves term to the front of the history ring, dropping
// duplicates and anything past the cap.
func (s *TiebaStore) rememberSearch(term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}

	s.mu.Lock()
	ring := make([]string, 0, maxSearchHistory)
	ring = append(ring, term)
	for _, t := range s.searchHistory {
		if t == term {
			continue
		}
		ring = append(ring, t)
		if len(ring) == maxSearchHistory {
			break
		}
	}
	s.searchHistory = ring
	s.mu.Unlock()

	if s.history != nil {
		if err := s.history.Add(term); err != nil {
			s.log.Debug().Err(err).Str("term", term).Msg("persisting search term")
		}
	}
}

// ClearSearchHistory drops all remembered search terms.
func (s *TiebaStore) ClearSearchHistory() {
	s.mu.Lock()
	s.searchHistory = nil
	s.mu.Unlock()

	if s.history != nil {
		if err := s.history.Clear(); err != nil {
			s.log.Debug().Err(err).Msg("clearing search history")
		}
	}
}

// GetHotTiebas fetches the tiebas with the most members.
func (s *TiebaStore) GetHotTiebas(ctx context.Context) Result[[]models.Tieba] {
	resp, err := s.client.Tiebas(ctx, api.TiebaQuery{Page: 1, PageSize: hotListSize, Sort: sortHot})
	if err != nil {
		return reportFailure[[]models.Tieba](s.notifier, s.log, err, "failed to fetch hot tiebas")
	}

	items := make([]models.Tieba, 0, len(resp.Results))
	for _, raw := range resp.Results {
		items = append(items, normalize.Tieba(raw))
	}
	s.mu.Lock()
	s.hot = items
	s.mu.Unlock()
	return ok(items)
}

// GetRecommendedTiebas fetches the most active tiebas.
func (s *TiebaStore) GetRecommendedTiebas(ctx context.Context) Result[[]models.Tieba] {
	resp, err := s.client.Tiebas(ctx, api.TiebaQuery{Page: 1, PageSize: hotListSize, Sort: sortRecommended})
	if err != nil {
		return reportFailure[[]models.Tieba](s.notifier, s.log, err, "failed to fetch recommended tiebas")
	}

	items := make([]models.Tieba, 0, len(resp.Results))
	for _, raw := range resp.Results {
		items = append(items, normalize.Tieba(raw))
	}
	s.mu.Lock()
	s.recommended = items
	s.mu.Unlock()
	return ok(items)
}

// JoinTieba joins a tieba. Membership and member count change locally
// only after the server confirms.
func (s *TiebaStore) JoinTieba(ctx context.Context, id int64) Status {
	if err := s.client.JoinTieba(ctx, id); err != nil {
		return reportFailure[struct{}](s.notifier, s.log, err, "failed to join tieba")
	}

	s.setMembership(id, true)
	s.notifier.Report("joined tieba", SeveritySuccess)
	return done()
}

// LeaveTieba leaves a tieba after the server confirms.
func (s *TiebaStore) LeaveTieba(ctx context.Context, id int64) Status {
	if err := s.client.LeaveTieba(ctx, id); err != nil {
		return reportFailure[struct{}](s.notifier, s.log, err, "failed to leave tieba")
	}

	s.setMembership(id, false)
	s.notifier.Report("left tieba", SeveritySuccess)
	return done()
}

func (s *TiebaStore) setMembership(id int64, joined bool) {
	delta := 1
	if !joined {
		delta = -1
	}
	s.Tiebas.MutateByID(id, func(t *models.Tieba) {
		t.IsJoined = joined
		t.MemberCount += delta
	})
	s.mu.Lock()
	if s.currentTieba != nil && s.currentTieba.ID == id {
		s.currentTieba.IsJoined = joined
		s.currentTieba.MemberCount += delta
	}
	s.mu.Unlock()
}

// FollowTieba follows a tieba without joining it.
func (s *TiebaStore) FollowTieba(ctx context.Context, id int64) Status {
	if err := s.client.FollowTieba(ctx, id); err != nil {
		return reportFailure[struct{}](s.notifier, s.log, err, "failed to follow tieba")
	}
	s.notifier.Report("following tieba", SeveritySuccess)
	return done()
}

// UnfollowTieba removes a follow.
func (s *TiebaStore) UnfollowTieba(ctx context.Context, id int64) Status {
	if err := s.client.UnfollowTieba(ctx, id); err != nil {
		return reportFailure[struct{}](s.notifier, s.log, err, "failed to unfollow tieba")
	}
	s.notifier.Report("unfollowed tieba", SeveritySuccess)
	return done()
}

// GetPostList fetches one page of posts, scoped to a tieba when tiebaID
// is positive.
func (s *TiebaStore) GetPostList(ctx context.Context, tiebaID int64, sort string, page, pageSize int) Result[[]models.Post] {
	s.Posts.setLoading(true)
	defer s.Posts.setLoading(false)

	resp, err := s.client.Posts(ctx, api.PostQuery{
		Page:     page,
		PageSize: pageSize,
		TiebaID:  tiebaID,
		Sort:     sort,
	})
	if err != nil {
		return reportFailure[[]models.Post](s.notifier, s.log, err, "failed to fetch posts")
	}

	items := make([]models.Post, 0, len(resp.Results))
	for _, raw := range resp.Results {
		items = append(items, normalize.Post(raw))
	}
	s.Posts.ApplyPage(page, items, resp.HasMore())
	return okPage(items, resp.HasMore())
}

// GetPostDetail fetches one post and makes it current.
func (s *TiebaStore) GetPostDetail(ctx context.Context, id int64) Result[models.Post] {
	raw, err := s.client.PostDetail(ctx, id)
	if err != nil {
		return reportFailure[models.Post](s.notifier, s.log, err, "failed to fetch post")
	}

	post := normalize.Post(raw)
	s.mu.Lock()
	s.currentPost = &post
	s.mu.Unlock()
	return ok(post)
}

// CreatePost creates a post in a tieba and prepends it to the post list.
func (s *TiebaStore) CreatePost(ctx context.Context, form models.CreatePostForm) Result[models.Post] {
	if err := form.Validate(); err != nil {
		s.notifier.Report(err.Error(), SeverityWarning)
		return fail[models.Post](err.Error())
	}

	raw, err := s.client.CreatePost(ctx, form.TiebaID, form.Title, form.Content, form.Tags)
	if err != nil {
		return reportFailure[models.Post](s.notifier, s.log, err, "failed to create post")
	}

	post := normalize.Post(raw)
	s.Posts.InsertFront(post)
	s.notifier.Report("post created", SeveritySuccess)
	return ok(post)
}

// DeletePost removes a post after the server confirms.
func (s *TiebaStore) DeletePost(ctx context.Context, id int64) Status {
	if err := s.client.DeletePost(ctx, id); err != nil {
		return reportFailure[struct{}](s.notifier, s.log, err, "failed to delete post")
	}

	s.Posts.RemoveByID(id)
	s.mu.Lock()
	if s.currentPost != nil && s.currentPost.ID == id {
		s.currentPost = nil
	}
	s.mu.Unlock()
	s.notifier.Report("post deleted", SeveritySuccess)
	return done()
}

// LikePost likes a post; the local counters change after the server
// confirms.
func (s *TiebaStore) LikePost(ctx context.Context, id int64) Status {
	if err := s.client.LikePost(ctx, id); err != nil {
		return reportFailure[struct{}](s.notifier, s.log, err, "failed to like post")
	}

	s.patchPost(id, func(p *models.Post) {
		p.IsLiked = true
		p.LikeCount++
	})
	return done()
}

// UnlikePost removes a like.
func (s *TiebaStore) UnlikePost(ctx context.Context, id int64) Status {
	if err := s.client.UnlikePost(ctx, id); err != nil {
		return reportFailure[struct{}](s.notifier, s.log, err, "failed to unlike post")
	}

	s.patchPost(id, func(p *models.Post) {
		p.IsLiked = false
		if p.LikeCount > 0 {
			p.LikeCount--
		}
	})
	return done()
}

// FavoritePost bookmarks a post.
func (s *TiebaStore) FavoritePost(ctx context.Context, id int64) Status {
	if err := s.client.FavoritePost(ctx, id); err != nil {
		return reportFailure[struct{}](s.notifier, s.log, err, "failed to favorite post")
	}

	s.patchPost(id, func(p *models.Post) { p.IsCollected = true })
	s.notifier.Report("post favorited", SeveritySuccess)
	return done()
}

// UnfavoritePost removes a bookmark.
func (s *TiebaStore) UnfavoritePost(ctx context.Context, id int64) Status {
	if err := s.client.UnfavoritePost(ctx, id); err != nil {
		return reportFailure[struct{}](s.notifier, s.log, err, "failed to unfavorite post")
	}

	s.patchPost(id, func(p *models.Post) { p.IsCollected = false })
	s.notifier.Report("favorite removed", SeveritySuccess)
	return done()
}

// patchPost applies the same patch to the listed copy and the current
// post so both views stay consistent.
func (s *TiebaStore) patchPost(id int64, patch func(*models.Post)) {
	s.Posts.MutateByID(id, patch)
	s.mu.Lock()
	if s.currentPost != nil && s.currentPost.ID == id {
		patch(s.currentPost)
	}
	s.mu.Unlock()
}

// GetPostReplies fetches one page of replies to the given post.
func (s *TiebaStore) GetPostReplies(ctx context.Context, postID int64, page, pageSize int) Result[[]models.PostReply] {
	s.Replies.setLoading(true)
	defer s.Replies.setLoading(false)

	resp, err := s.client.PostReplies(ctx, postID, page, pageSize)
	if err != nil {
		return reportFailure[[]models.PostReply](s.notifier, s.log, err, "failed to fetch replies")
	}

	items := make([]models.PostReply, 0, len(resp.Results))
	for _, raw := range resp.Results {
		items = append(items, normalize.PostReply(raw))
	}
	s.Replies.ApplyPage(page, items, resp.HasMore())
	return okPage(items, resp.HasMore())
}

// ReplyPost posts a reply and appends it to the reply list, bumping the
// reply counter on the post.
func (s *TiebaStore) ReplyPost(ctx context.Context, postID int64, content string, parentID int64) Result[models.PostReply] {
	if strings.TrimSpace(content) == "" {
		s.notifier.Report("reply content is required", SeverityWarning)
		return fail[models.PostReply]("reply content is required")
	}

	raw, err := s.client.ReplyPost(ctx, postID, content, parentID)
	if err != nil {
		return reportFailure[models.PostReply](s.notifier, s.log, err, "failed to post reply")
	}

	reply := normalize.PostReply(raw)
	s.Replies.Append(reply)
	s.patchPost(postID, func(p *models.Post) { p.ReplyCount++ })
	s.notifier.Report("reply posted", SeveritySuccess)
	return ok(reply)
}
