package usersapi

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce_automation/domain/entities"
)

type fakeAPI struct {
	users  []entities.User
	status int
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "API with seed users"})
	})
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if f.status != 0 {
			w.WriteHeader(f.status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(f.users)
	})
	mux.HandleFunc("/add_user", func(w http.ResponseWriter, r *http.Request) {
		var u entities.User
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.users = append(f.users, u)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "User successfully added"})
	})
	return mux
}

func newClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	logger, _ := test.NewNullLogger()
	return NewClient(srv.URL+"/", time.Second, logger, WithRand(rand.New(rand.NewPCG(1, 2))))
}

func TestUsers(t *testing.T) {
	api := &fakeAPI{users: []entities.User{
		{Username: "standard_user", Password: "secret_sauce"},
		{Username: "problem_user", Password: "secret_sauce"},
	}}
	c := newClient(t, api)

	users, err := c.Users(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api.users, users)
	assert.NoError(t, c.Ping(context.Background()))
}

func TestSample(t *testing.T) {
	api := &fakeAPI{users: []entities.User{{Username: "a"}, {Username: "b"}, {Username: "c"}}}
	c := newClient(t, api)

	sample, err := c.Sample(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, sample, 5)
	for _, u := range sample {
		assert.Contains(t, api.users, u)
	}

	none, err := c.Sample(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSampleEmpty(t *testing.T) {
	c := newClient(t, &fakeAPI{users: []entities.User{}})
	_, err := c.Sample(context.Background(), 1)
	assert.Error(t, err)
}

func TestUsersUnexpectedStatus(t *testing.T) {
	c := newClient(t, &fakeAPI{status: http.StatusInternalServerError})
	_, err := c.Users(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestAddUser(t *testing.T) {
	api := &fakeAPI{}
	c := newClient(t, api)

	require.NoError(t, c.AddUser(context.Background(), entities.User{Username: "new_user", Password: "pw"}))
	users, err := c.Users(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entities.User{{Username: "new_user", Password: "pw"}}, users)
}

func TestUnreachable(t *testing.T) {
	logger, _ := test.NewNullLogger()
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond, logger)
	_, err := c.Users(context.Background())
	assert.ErrorContains(t, err, "unable to perform GET /users")
}
