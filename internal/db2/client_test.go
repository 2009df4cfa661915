package db2

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/observability"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	return NewClient(config.DB2Config{
		Host:     u.Hostname(),
		Port:     u.Port(),
		User:     "ibmuser",
		Password: "secret",
		BasePath: "/services/db2",
	}, zap.NewNop())
}

func TestClient_CallSendsAuthAndPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/services/db2/findbyemail", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-42", r.Header.Get(observability.RequestIDHeader))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "ibmuser", user)
		assert.Equal(t, "secret", pass)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.com", body["email"])

		_, _ = w.Write([]byte(`{"ResultSet Output":[{"FIRSTNAME":"A","EMAIL":"a@b.com"}],"StatusCode":200,"StatusDescription":"Execution Successful"}`))
	})

	ctx := observability.WithRequestID(context.Background(), "req-42")
	env, err := client.Call(ctx, OpFindByEmail, map[string]string{"email": "a@b.com"})
	require.NoError(t, err)
	assert.Len(t, env.ResultSet, 1)
	assert.Equal(t, 200, env.StatusCode)
}

func TestClient_CallDecodesUpdateCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Update Count":1,"StatusCode":200}`))
	})

	env, err := client.Call(context.Background(), OpDeleteByEmail, map[string]string{"email": "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, env.UpdateCount)
}

func TestClient_CallWithoutPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/db2/findall", r.URL.Path)
		assert.Zero(t, r.ContentLength)
		_, _ = w.Write([]byte(`{"ResultSet Output":[]}`))
	})

	env, err := client.Call(context.Background(), OpFindAll, nil)
	require.NoError(t, err)
	assert.Empty(t, env.ResultSet)
}

func TestClient_CallReturnsRemoteError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"StatusCode":500,"StatusDescription":"SQLCODE=-803, SQLSTATE=23505"}`))
	})

	_, err := client.Call(context.Background(), OpInsert, map[string]string{"email": "a@b.com"})

	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, OpInsert, remoteErr.Operation)
	assert.Equal(t, http.StatusInternalServerError, remoteErr.StatusCode)
	assert.Contains(t, remoteErr.StatusDescription, "-803")
}

func TestClient_CallRemoteErrorWithPlainBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("  not authorized \n"))
	})

	_, err := client.Call(context.Background(), OpFindAll, nil)

	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusUnauthorized, remoteErr.StatusCode)
	assert.Equal(t, "not authorized", remoteErr.StatusDescription)
}

func TestClient_CallInvalidJSONIsTransportError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	})

	_, err := client.Call(context.Background(), OpFindAll, nil)

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestClient_CallUnreachableGateway(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	srv.Close()

	client := NewClient(config.DB2Config{Host: u.Hostname(), Port: u.Port(), BasePath: "/services/db2"}, zap.NewNop())

	_, err = client.Call(context.Background(), OpFindAll, nil)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, OpFindAll, transportErr.Operation)
}

func TestClient_CallUnencodablePayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("gateway must not be called")
	})

	_, err := client.Call(context.Background(), OpInsert, map[string]any{"bad": make(chan int)})
	require.Error(t, err)

	var remoteErr *RemoteError
	var transportErr *TransportError
	assert.False(t, errors.As(err, &remoteErr))
	assert.False(t, errors.As(err, &transportErr))
}

func TestRows_DecodesCaseInsensitively(t *testing.T) {
	type row struct {
		Firstname string `json:"firstname"`
		Email     string `json:"email"`
	}
	env := &Envelope{ResultSet: []json.RawMessage{
		json.RawMessage(`{"FIRSTNAME":"Ada","EMAIL":"ada@x.com"}`),
		json.RawMessage(`{"firstname":"Bob","email":"bob@x.com"}`),
	}}

	rows, err := Rows[row](env)
	require.NoError(t, err)
	assert.Equal(t, []row{{"Ada", "ada@x.com"}, {"Bob", "bob@x.com"}}, rows)
}

func TestRows_EmptyResultSet(t *testing.T) {
	rows, err := Rows[map[string]any](&Envelope{})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
