package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/kdduha/genai-studio/internal/models"
	"github.com/rs/zerolog"
)

// Store is the byte store backing session state.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type ctxKey struct{}

// WithID returns a context carrying the session id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// ID returns the session id set by Manager.Middleware, or "" outside a session.
func ID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type Manager struct {
	logger     zerolog.Logger
	store      Store
	cookieName string
	ttl        time.Duration
	galleryCap int

	locks sessionLocks
}

func NewManager(logger zerolog.Logger, store Store, cookieName string, ttl time.Duration, galleryCap int) *Manager {
	if galleryCap <= 0 {
		galleryCap = 20
	}
	return &Manager{
		logger:     logger,
		store:      store,
		cookieName: cookieName,
		ttl:        ttl,
		galleryCap: galleryCap,
		locks:      sessionLocks{held: make(map[string]*sessionLock)},
	}
}

type sessionLock struct {
	sync.Mutex
	refs int
}

// sessionLocks serialises gallery read-modify-write cycles per session.
type sessionLocks struct {
	mu   sync.Mutex
	held map[string]*sessionLock
}

func (l *sessionLocks) lock(sid string) func() {
	l.mu.Lock()
	sl, ok := l.held[sid]
	if !ok {
		sl = &sessionLock{}
		l.held[sid] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.Lock()
	return func() {
		sl.Unlock()
		l.mu.Lock()
		if sl.refs--; sl.refs == 0 {
			delete(l.held, sid)
		}
		l.mu.Unlock()
	}
}

// Middleware attaches a session id to every request, issuing a cookie on first visit.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(m.cookieName); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     m.cookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(m.ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

func galleryKey(sid string) string        { return "gallery:" + sid }
func imageKey(sid, imageID string) string { return "image:" + sid + ":" + imageID }
func exchangeKey(sid string) string       { return "exchange:" + sid }

// Gallery returns image metadata of the session, newest first. Data is not loaded.
func (m *Manager) Gallery(ctx context.Context, sid string) ([]models.GeneratedImage, error) {
	raw, found, err := m.store.Get(ctx, galleryKey(sid))
	if err != nil {
		return nil, fmt.Errorf("failed to load gallery: %w", err)
	}
	if !found {
		return nil, nil
	}

	var gallery []models.GeneratedImage
	if err := sonic.Unmarshal(raw, &gallery); err != nil {
		return nil, fmt.Errorf("failed to decode gallery: %w", err)
	}
	return gallery, nil
}

// AddImages stores image bytes and prepends their metadata to the gallery.
// Images pushed past the gallery cap are evicted.
func (m *Manager) AddImages(ctx context.Context, sid string, images []models.GeneratedImage) error {
	unlock := m.locks.lock(sid)
	defer unlock()

	gallery, err := m.Gallery(ctx, sid)
	if err != nil {
		return err
	}

	for _, img := range images {
		if err := m.store.Set(ctx, imageKey(sid, img.ID), img.Data); err != nil {
			return fmt.Errorf("failed to store image %s: %w", img.ID, err)
		}
	}

	updated := make([]models.GeneratedImage, 0, len(images)+len(gallery))
	for i := len(images) - 1; i >= 0; i-- {
		img := images[i]
		img.Data = nil
		updated = append(updated, img)
	}
	updated = append(updated, gallery...)

	if len(updated) > m.galleryCap {
		for _, old := range updated[m.galleryCap:] {
			if err := m.store.Delete(ctx, imageKey(sid, old.ID)); err != nil {
				m.logger.Warn().Err(err).Str("image_id", old.ID).Msg("failed to evict image")
			}
		}
		updated = updated[:m.galleryCap]
	}

	raw, err := sonic.Marshal(updated)
	if err != nil {
		return fmt.Errorf("failed to encode gallery: %w", err)
	}
	if err := m.store.Set(ctx, galleryKey(sid), raw); err != nil {
		return fmt.Errorf("failed to store gallery: %w", err)
	}
	return nil
}

// Image returns one gallery image with its bytes.
func (m *Manager) Image(ctx context.Context, sid, imageID string) (*models.GeneratedImage, error) {
	gallery, err := m.Gallery(ctx, sid)
	if err != nil {
		return nil, err
	}

	for _, img := range gallery {
		if img.ID != imageID {
			continue
		}
		data, found, err := m.store.Get(ctx, imageKey(sid, imageID))
		if err != nil {
			return nil, fmt.Errorf("failed to load image: %w", err)
		}
		if !found {
			break
		}
		img.Data = data
		return &img, nil
	}
	return nil, fmt.Errorf("image %s: %w", imageID, models.ErrNotFound)
}

func (m *Manager) ClearGallery(ctx context.Context, sid string) error {
	unlock := m.locks.lock(sid)
	defer unlock()

	gallery, err := m.Gallery(ctx, sid)
	if err != nil {
		return err
	}
	for _, img := range gallery {
		if err := m.store.Delete(ctx, imageKey(sid, img.ID)); err != nil {
			return fmt.Errorf("failed to delete image: %w", err)
		}
	}
	return m.store.Delete(ctx, galleryKey(sid))
}

// LastExchange returns the latest answered question, or nil when there is none.
func (m *Manager) LastExchange(ctx context.Context, sid string) (*models.Exchange, error) {
	raw, found, err := m.store.Get(ctx, exchangeKey(sid))
	if err != nil {
		return nil, fmt.Errorf("failed to load exchange: %w", err)
	}
	if !found {
		return nil, nil
	}

	var ex models.Exchange
	if err := sonic.Unmarshal(raw, &ex); err != nil {
		return nil, fmt.Errorf("failed to decode exchange: %w", err)
	}
	return &ex, nil
}

func (m *Manager) SetLastExchange(ctx context.Context, sid string, ex models.Exchange) error {
	raw, err := sonic.Marshal(ex)
	if err != nil {
		return fmt.Errorf("failed to encode exchange: %w", err)
	}
	return m.store.Set(ctx, exchangeKey(sid), raw)
}

func (m *Manager) ClearExchange(ctx context.Context, sid string) error {
	return m.store.Delete(ctx, exchangeKey(sid))
}
