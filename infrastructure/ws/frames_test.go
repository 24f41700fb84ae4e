package ws

import (
	"encoding/json"
	"testing"
	"time"

	"chatter/domain"
	"chatter/domain/event"
	"chatter/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	t.Run("valid register payload", func(t *testing.T) {
		req := require.New(t)

		payload, err := decodePayload[RegisterPayload](json.RawMessage(`{"userId":"u-1"}`))
		req.NoError(err)
		req.Equal("u-1", payload.UserID)
	})

	t.Run("missing required field", func(t *testing.T) {
		req := require.New(t)

		_, err := decodePayload[SendDirectPayload](json.RawMessage(`{"to":"u-2"}`))
		req.ErrorIs(err, errors.ErrValidation)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := require.New(t)

		_, err := decodePayload[JoinGroupPayload](json.RawMessage(`{"groupId":`))
		req.ErrorIs(err, errors.ErrValidation)
	})

	t.Run("unknown extra fields are tolerated", func(t *testing.T) {
		req := require.New(t)

		payload, err := decodePayload[SendGroupPayload](
			json.RawMessage(`{"group":"g-1","content":"hi","legacy":true}`))
		req.NoError(err)
		req.Equal("g-1", payload.Group)
	})
}

func TestEncodeDomainEvent(t *testing.T) {
	at := time.Now().UTC().Truncate(time.Second)
	message := domain.Message{
		ID:        uuid.New(),
		From:      "u-1",
		To:        "u-2",
		Content:   "hello",
		Lang:      "en",
		CreatedAt: at,
	}
	sender := domain.Identity{UserID: "u-1", DisplayName: "Alice"}

	t.Run("direct message notification", func(t *testing.T) {
		req := require.New(t)

		data, err := encodeDomainEvent(event.MessageReceived{Message: message, Sender: sender})
		req.NoError(err)

		var frame Frame
		req.NoError(json.Unmarshal(data, &frame))
		req.Equal("receive-message", frame.Event)

		var payload MessagePayload
		req.NoError(json.Unmarshal(frame.Payload, &payload))
		req.Equal("hello", payload.Content)
		req.Equal("Alice", payload.From.DisplayName)
		req.Equal("u-2", payload.To)
	})

	t.Run("group message notification", func(t *testing.T) {
		req := require.New(t)

		groupMessage := message
		groupMessage.To = ""
		groupMessage.Group = "g-1"

		data, err := encodeDomainEvent(event.GroupMessageReceived{Message: groupMessage, Sender: sender})
		req.NoError(err)

		var frame Frame
		req.NoError(json.Unmarshal(data, &frame))
		req.Equal("receive-group-message", frame.Event)

		var payload MessagePayload
		req.NoError(json.Unmarshal(frame.Payload, &payload))
		req.Equal("g-1", payload.Group)
		req.Empty(payload.To)
	})

	t.Run("group created notification", func(t *testing.T) {
		req := require.New(t)

		group := domain.Group{
			ID:        "g-1",
			Name:      "team",
			Members:   []string{"u-1", "u-2"},
			CreatedBy: "u-1",
			CreatedAt: at,
		}

		data, err := encodeDomainEvent(event.GroupCreated{Group: group})
		req.NoError(err)

		var frame Frame
		req.NoError(json.Unmarshal(data, &frame))
		req.Equal("new-group", frame.Event)

		var payload GroupPayload
		req.NoError(json.Unmarshal(frame.Payload, &payload))
		req.Equal("team", payload.Name)
		req.Len(payload.Members, 2)
	})
}

func TestAckPayload_Carries_No_Sender(t *testing.T) {
	req := require.New(t)

	message := domain.Message{
		ID:        uuid.New(),
		From:      "u-1",
		To:        "u-2",
		Content:   "hello",
		CreatedAt: time.Now().UTC(),
	}

	data, err := encodeFrame(EventAck, toAckPayload(message))
	req.NoError(err)

	// The sender already knows who they are: no from field on the wire
	var decoded map[string]any
	req.NoError(json.Unmarshal(data, &decoded))
	payload := decoded["payload"].(map[string]any)
	req.NotContains(payload, "from")
	req.Equal("hello", payload["content"])
}
