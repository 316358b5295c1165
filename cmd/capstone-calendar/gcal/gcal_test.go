package gcal

import (
	"capstone-calendar-backend/cmd/capstone-calendar/apperr"
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

type fakeCredentialStore struct {
	mu    sync.Mutex
	cred  *model.GoogleCredential
	err   error
	saved []string
}

func (s *fakeCredentialStore) FindCredentialByUserID(ctx context.Context, userID string) (*model.GoogleCredential, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cred, nil
}

func (s *fakeCredentialStore) SaveCredentialToken(ctx context.Context, userID, accessToken, refreshToken string, expiresAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, userID+":"+accessToken+":"+refreshToken)
	return nil
}

func newCalendarServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_CreateEvent(t *testing.T) {
	var got calendar.Event
	srv := newCalendarServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"gcal-123"}`)
	})

	client, err := NewClient(context.Background(), srv.Client(), "primary", option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	id, err := client.CreateEvent(context.Background(), &calendar.Event{
		Summary:  "[REV1] G01 - SP001",
		Location: "P.301",
		Start:    &calendar.EventDateTime{DateTime: "2026-01-22T09:00:00+07:00", TimeZone: "Asia/Ho_Chi_Minh"},
		End:      &calendar.EventDateTime{DateTime: "2026-01-22T10:00:00+07:00", TimeZone: "Asia/Ho_Chi_Minh"},
	})

	require.NoError(t, err)
	assert.Equal(t, "gcal-123", id)
	assert.Equal(t, "[REV1] G01 - SP001", got.Summary)
	assert.Equal(t, "P.301", got.Location)
	assert.Equal(t, "Asia/Ho_Chi_Minh", got.Start.TimeZone)
}

func TestClient_UpdateEvent(t *testing.T) {
	srv := newCalendarServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/calendars/team@example.com/events/gcal-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"gcal-1"}`)
	})

	client, err := NewClient(context.Background(), srv.Client(), "team@example.com", option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	err = client.UpdateEvent(context.Background(), "gcal-1", &calendar.Event{Summary: "x"})
	assert.NoError(t, err)
}

func TestClient_RemoteErrorIsReturned(t *testing.T) {
	srv := newCalendarServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error":{"code":403,"message":"Rate Limit Exceeded"}}`)
	})

	client, err := NewClient(context.Background(), srv.Client(), "primary", option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	id, err := client.CreateEvent(context.Background(), &calendar.Event{Summary: "x"})
	assert.Empty(t, id)
	assert.ErrorContains(t, err, "failed to create event")
	assert.ErrorContains(t, err, "Rate Limit Exceeded")
}

func TestOAuth_AuthCodeURL(t *testing.T) {
	o := NewOAuth("client-id", "secret", "http://localhost:8080/api/auth/google/callback")

	u, err := url.Parse(o.AuthCodeURL("state-1"))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Contains(t, q.Get("scope"), calendar.CalendarScope)
	assert.Contains(t, q.Get("scope"), "userinfo.email")
}

func TestOAuth_Profile(t *testing.T) {
	srv := newCalendarServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"g-42","email":"lan@example.com","name":"Lan","picture":"http://img"}`)
	})

	o := NewOAuth("client-id", "secret", "http://localhost/cb")
	o.apiOpts = []option.ClientOption{option.WithEndpoint(srv.URL + "/")}

	profile, err := o.Profile(context.Background(), &oauth2.Token{AccessToken: "at-1", Expiry: time.Now().Add(time.Hour)})

	require.NoError(t, err)
	assert.Equal(t, "g-42", profile.GoogleID)
	assert.Equal(t, "lan@example.com", profile.Email)
	assert.Equal(t, "Lan", profile.Name)
}

func TestClientFactory_ForUser_NotConnected(t *testing.T) {
	tests := []struct {
		name  string
		store *fakeCredentialStore
	}{
		{name: "no credential row", store: &fakeCredentialStore{err: apperr.NotFound("google credential not found")}},
		{name: "empty tokens", store: &fakeCredentialStore{cred: &model.GoogleCredential{UserID: "u-1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewClientFactory(NewOAuth("id", "secret", "cb"), tt.store, "primary", zap.NewNop())

			client, err := f.ForUser(context.Background(), "u-1")

			assert.Nil(t, client)
			assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
		})
	}
}

func TestClientFactory_ForUser_UsesStoredToken(t *testing.T) {
	srv := newCalendarServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"gcal-7"}`)
	})

	expiry := time.Now().Add(time.Hour)
	store := &fakeCredentialStore{cred: &model.GoogleCredential{UserID: "u-1", AccessToken: "at-1", RefreshToken: "rt-1", ExpiresAt: &expiry}}
	f := NewClientFactory(NewOAuth("id", "secret", "cb"), store, "primary", zap.NewNop())
	f.apiOpts = []option.ClientOption{option.WithEndpoint(srv.URL + "/")}

	client, err := f.ForUser(context.Background(), "u-1")
	require.NoError(t, err)

	id, err := client.CreateEvent(context.Background(), &calendar.Event{Summary: "x"})
	require.NoError(t, err)
	assert.Equal(t, "gcal-7", id)
	assert.Empty(t, store.saved)
}

func TestClientFactory_ForUser_PersistsRefreshedToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"access_token":"at-2","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at-2", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"gcal-8"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	expired := time.Now().Add(-time.Hour)
	store := &fakeCredentialStore{cred: &model.GoogleCredential{UserID: "u-1", AccessToken: "at-1", RefreshToken: "rt-1", ExpiresAt: &expired}}

	o := NewOAuth("id", "secret", "cb")
	o.config.Endpoint = oauth2.Endpoint{TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}
	f := NewClientFactory(o, store, "primary", zap.NewNop())
	f.apiOpts = []option.ClientOption{option.WithEndpoint(srv.URL + "/")}

	client, err := f.ForUser(context.Background(), "u-1")
	require.NoError(t, err)

	_, err = client.CreateEvent(context.Background(), &calendar.Event{Summary: "x"})
	require.NoError(t, err)
	_, err = client.CreateEvent(context.Background(), &calendar.Event{Summary: "y"})
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	assert.Equal(t, "u-1:at-2:rt-1", store.saved[0])
}

func TestScopes(t *testing.T) {
	joined := strings.Join(Scopes, " ")
	assert.Contains(t, joined, "userinfo.profile")
	assert.Contains(t, joined, "userinfo.email")
	assert.Contains(t, joined, "auth/calendar")
}
