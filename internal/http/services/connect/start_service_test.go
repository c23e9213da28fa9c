package connect

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/jobberconnect/internal/directory"
	"github.com/dropDatabas3/jobberconnect/internal/security/state"
)

func TestStart_PhoneRequired(t *testing.T) {
	svc := NewStartService(newTestDeps(state.NewSigned("s", time.Minute), &fakeProvider{}, &fakeSink{}))

	for _, phone := range []string{"", "   "} {
		_, err := svc.Start(context.Background(), phone)
		require.ErrorIs(t, err, ErrPhoneRequired)
	}
}

func TestStart_ClientNotFound(t *testing.T) {
	deps := newTestDeps(state.NewSigned("s", time.Minute), &fakeProvider{}, &fakeSink{})
	deps.Directory = &fakeDirectory{err: directory.ErrClientNotFound}
	svc := NewStartService(deps)

	_, err := svc.Start(context.Background(), "+15550001234")
	require.ErrorIs(t, err, ErrClientNotFound)
}

func TestStart_DirectoryFailurePropagates(t *testing.T) {
	boom := errors.New("lookup backend down")
	deps := newTestDeps(state.NewSigned("s", time.Minute), &fakeProvider{}, &fakeSink{})
	deps.Directory = &fakeDirectory{err: boom}
	svc := NewStartService(deps)

	_, err := svc.Start(context.Background(), "+15550001234")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrClientNotFound)
}

func TestStart_StateRoundTripsThroughURL(t *testing.T) {
	codec := state.NewSigned("s", time.Minute)
	svc := NewStartService(newTestDeps(codec, &fakeProvider{}, &fakeSink{}))

	before := time.Now().Unix()
	raw, err := svc.Start(context.Background(), "  +15550001234  ")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	token := u.Query().Get("state")
	require.NotEmpty(t, token)

	payload, err := codec.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "client_1", payload.ClientID)
	require.Equal(t, "+15550001234", payload.PhoneNumber, "phone must be trimmed before encoding")
	require.GreaterOrEqual(t, payload.IssuedAt, before)
}

func TestStart_NoSideEffects(t *testing.T) {
	provider := &fakeProvider{}
	forwarder := &fakeSink{}
	svc := NewStartService(newTestDeps(state.NewContainer(), provider, forwarder))

	raw, err := svc.Start(context.Background(), "+15550001234")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(raw, "https://provider.example.com/authorize"))
	require.Zero(t, provider.exchangeCalls)
	require.Zero(t, forwarder.forwardCalls)
}
