package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func TestPublishersImplementInterface(t *testing.T) {
	var _ Publisher = (*NoopPublisher)(nil)
	var _ Publisher = (*NATSPublisher)(nil)
	var _ Publisher = (*MemoryPublisher)(nil)
}

func TestNoopPublisher(t *testing.T) {
	pub := &NoopPublisher{}
	assert.NoError(t, pub.Publish(context.Background(), TopicKeyStored, KeyStored{}))
	assert.NoError(t, pub.Close())
}

func TestMemoryPublisher(t *testing.T) {
	pub := &MemoryPublisher{}
	require.NoError(t, pub.Publish(context.Background(), TopicKeyStored, KeyStored{BlobID: "b"}))
	require.NoError(t, pub.Publish(context.Background(), TopicKeyDenied, KeyAccess{BlobID: "b"}))

	assert.Equal(t, []string{TopicKeyStored, TopicKeyDenied}, pub.Topics())
	assert.Equal(t, "b", pub.Events()[0].Event.(KeyStored).BlobID)
}

func TestNATSPublisher_Publish(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	require.NoError(t, err)
	defer pub.Close()

	nc, err := nats.Connect(url)
	require.NoError(t, err)
	defer nc.Close()

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe(TopicKeyReleased, ch)
	require.NoError(t, err)
	defer sub.Unsubscribe() //nolint:errcheck
	require.NoError(t, nc.Flush())

	// publishes are buffered by the connection, so a cancelled context does not drop them
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	event := KeyAccess{BlobID: "blob-9", Investor: "0xabc", Percentage: 25}
	require.NoError(t, pub.Publish(ctx, TopicKeyReleased, event))
	require.NoError(t, pub.Flush())

	select {
	case msg := <-ch:
		var got KeyAccess
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, "blob-9", got.BlobID)
		assert.Equal(t, uint64(25), got.Percentage)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestSubscriber_Wildcard(t *testing.T) {
	url := startTestNATS(t)

	sub, err := NewSubscriber(url)
	require.NoError(t, err)
	defer sub.Close()

	got := make(chan string, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sub.Subscribe(ctx, TopicAll, func(subject string, _ []byte) { got <- subject })
	}()

	pub, err := NewNATSPublisher(url)
	require.NoError(t, err)
	defer pub.Close()

	// the subscription registers asynchronously; publish until the first message lands
	deadline := time.After(3 * time.Second)
	for received := false; !received; {
		require.NoError(t, pub.Publish(context.Background(), TopicProjectCreated, ProjectCreated{ProjectID: "p"}))
		require.NoError(t, pub.Flush())
		select {
		case subject := <-got:
			assert.Equal(t, TopicProjectCreated, subject)
			received = true
		case <-time.After(50 * time.Millisecond):
		case <-deadline:
			t.Fatal("timed out waiting for wildcard delivery")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}
