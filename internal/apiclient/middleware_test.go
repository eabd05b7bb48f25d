package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithToken_AttachesBearer(t *testing.T) {
	var header string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}, WithToken(TokenSourceFunc(func(ctx context.Context) (string, error) {
		return "tok-123", nil
	})))

	_, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-123", header)
}

func TestWithToken_ProceedsWithoutCredentialOnFailure(t *testing.T) {
	var header string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}, WithToken(TokenSourceFunc(func(ctx context.Context) (string, error) {
		return "", errors.New("refresh failed")
	})))

	_, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	require.Empty(t, header)
}

func TestWithToken_SkipsEmptyToken(t *testing.T) {
	var header string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}, WithToken(TokenSourceFunc(func(ctx context.Context) (string, error) {
		return "", nil
	})))

	_, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	require.Empty(t, header)
}

func TestWithRequestID_UniquePerRequest(t *testing.T) {
	var ids []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`[]`))
	}, WithRequestID())

	_, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	_, err = client.ListProjects(context.Background())
	require.NoError(t, err)

	require.Len(t, ids, 2)
	require.NotEmpty(t, ids[0])
	require.NotEmpty(t, ids[1])
	require.NotEqual(t, ids[0], ids[1])
}

func TestWithUnauthorizedHook_FiresOn401Only(t *testing.T) {
	status := http.StatusOK
	fired := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(`[]`))
	}, WithUnauthorizedHook(func() { fired++ }))

	_, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	require.Zero(t, fired)

	status = http.StatusUnauthorized
	_, err = client.ListProjects(context.Background())
	require.Error(t, err)
	require.Equal(t, 1, fired)
}

func TestChain_OrdersFirstMiddlewareOutermost(t *testing.T) {
	var order []string
	record := func(name string) Middleware {
		return func(next Doer) Doer {
			return DoerFunc(func(req *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.Do(req)
			})
		}
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(server.Close)

	doer := Chain(http.DefaultClient, record("outer"), record("inner"))
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := doer.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, []string{"outer", "inner"}, order)
}
