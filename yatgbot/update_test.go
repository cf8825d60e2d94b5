package yatgbot_test

import (
	"net/http"
	"testing"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yatgbot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUpdate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		target error
	}{
		{
			name:   "Malformed JSON",
			raw:    `{"update_id":`,
			target: yatgbot.ErrMalformedUpdate,
		},
		{
			name:   "Not an object",
			raw:    `[1,2,3]`,
			target: yatgbot.ErrMalformedUpdate,
		},
		{
			name:   "Missing update_id",
			raw:    `{"message":{"text":"hi","chat":{"id":1}}}`,
			target: yatgbot.ErrMissingUpdateID,
		},
		{
			name:   "Two payloads",
			raw:    `{"update_id":1,"message":{"text":"hi"},"callback_query":{"id":"q","from":{"id":7}}}`,
			target: yatgbot.ErrAmbiguousUpdate,
		},
		{
			name:   "Wrong payload type",
			raw:    `{"update_id":1,"message":"hi"}`,
			target: yatgbot.ErrMalformedUpdate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update, err := yatgbot.DecodeUpdate([]byte(tt.raw))

			require.NotNil(t, err)
			assert.Nil(t, update)
			assert.Equal(t, http.StatusBadRequest, err.Code())
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestDecodeUpdate_Accepts(t *testing.T) {
	t.Run("Null payloads are ignored", func(t *testing.T) {
		update, err := yatgbot.DecodeUpdate([]byte(`{"update_id":5,"message":null,"poll":{"id":"p","question":"?"}}`))

		require.Nil(t, err)
		assert.Equal(t, int64(5), update.UpdateID)
		assert.Equal(t, yatgbot.PayloadPoll, update.Kind())
	})

	t.Run("Update without payload", func(t *testing.T) {
		update, err := yatgbot.DecodeUpdate([]byte(`{"update_id":6}`))

		require.Nil(t, err)
		assert.Equal(t, yatgbot.PayloadNone, update.Kind())
	})
}

func TestUpdate_ChatAndUser(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		chatID, userID int64
		hasChat        bool
		hasUser        bool
	}{
		{
			name:    "Message",
			raw:     `{"update_id":1,"message":{"chat":{"id":42},"from":{"id":7},"text":"hi"}}`,
			chatID:  42,
			userID:  7,
			hasChat: true,
			hasUser: true,
		},
		{
			name:    "Anonymous channel post",
			raw:     `{"update_id":1,"channel_post":{"chat":{"id":-100},"text":"news"}}`,
			chatID:  -100,
			hasChat: true,
		},
		{
			name:    "Callback on a chat message",
			raw:     `{"update_id":1,"callback_query":{"id":"q","from":{"id":7},"message":{"chat":{"id":42}},"data":"x"}}`,
			chatID:  42,
			userID:  7,
			hasChat: true,
			hasUser: true,
		},
		{
			name:    "Callback on an inline message",
			raw:     `{"update_id":1,"callback_query":{"id":"q","from":{"id":7},"inline_message_id":"m","data":"x"}}`,
			userID:  7,
			hasUser: true,
		},
		{
			name:    "Inline query",
			raw:     `{"update_id":1,"inline_query":{"id":"q","from":{"id":7},"query":"cats"}}`,
			userID:  7,
			hasUser: true,
		},
		{
			name: "Poll",
			raw:  `{"update_id":1,"poll":{"id":"p","question":"?"}}`,
		},
		{
			name:    "Join request",
			raw:     `{"update_id":1,"chat_join_request":{"chat":{"id":-5},"from":{"id":9}}}`,
			chatID:  -5,
			userID:  9,
			hasChat: true,
			hasUser: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update := decode(t, tt.raw)

			chatID, ok := update.ChatID()
			assert.Equal(t, tt.hasChat, ok)
			assert.Equal(t, tt.chatID, chatID)

			userID, ok := update.UserID()
			assert.Equal(t, tt.hasUser, ok)
			assert.Equal(t, tt.userID, userID)
		})
	}
}

func TestDecodePayload(t *testing.T) {
	update := decode(t, `{"update_id":1,"message":{"chat":{"id":42},"location":{"latitude":55.75,"longitude":37.61}}}`)

	t.Run("Present payload decodes", func(t *testing.T) {
		var location struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		}

		require.Nil(t, yatgbot.DecodePayload(update.Message.Location, &location))
		assert.InDelta(t, 55.75, location.Latitude, 1e-9)
		assert.InDelta(t, 37.61, location.Longitude, 1e-9)
	})

	t.Run("Absent payload is 404", func(t *testing.T) {
		var venue struct{}

		err := yatgbot.DecodePayload(update.Message.Venue, &venue)

		require.NotNil(t, err)
		assert.Equal(t, http.StatusNotFound, err.Code())
		assert.ErrorIs(t, err, yatgbot.ErrPayloadAbsent)
	})
}
