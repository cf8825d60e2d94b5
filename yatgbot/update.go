package yatgbot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

// Update is one inbound event. At most one payload field is set.
type Update struct {
	UpdateID           int64               `json:"update_id"`
	Message            *Message            `json:"message,omitempty"`
	EditedMessage      *Message            `json:"edited_message,omitempty"`
	ChannelPost        *Message            `json:"channel_post,omitempty"`
	EditedChannelPost  *Message            `json:"edited_channel_post,omitempty"`
	CallbackQuery      *CallbackQuery      `json:"callback_query,omitempty"`
	InlineQuery        *InlineQuery        `json:"inline_query,omitempty"`
	ChosenInlineResult *ChosenInlineResult `json:"chosen_inline_result,omitempty"`
	ShippingQuery      *ShippingQuery      `json:"shipping_query,omitempty"`
	PreCheckoutQuery   *PreCheckoutQuery   `json:"pre_checkout_query,omitempty"`
	Poll               *Poll               `json:"poll,omitempty"`
	PollAnswer         *PollAnswer         `json:"poll_answer,omitempty"`
	MyChatMember       *ChatMemberUpdated  `json:"my_chat_member,omitempty"`
	ChatMember         *ChatMemberUpdated  `json:"chat_member,omitempty"`
	ChatJoinRequest    *ChatJoinRequest    `json:"chat_join_request,omitempty"`
}

type User struct {
	ID           int64  `json:"id"`
	IsBot        bool   `json:"is_bot,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Username string `json:"username,omitempty"`
}

// Message keeps the classified sub-payloads as raw JSON; decode one with [DecodePayload].
type Message struct {
	MessageID int64  `json:"message_id"`
	Date      int64  `json:"date,omitempty"`
	Chat      *Chat  `json:"chat,omitempty"`
	From      *User  `json:"from,omitempty"`
	Text      string `json:"text,omitempty"`
	Caption   string `json:"caption,omitempty"`

	Dice              json.RawMessage `json:"dice,omitempty"`
	Document          json.RawMessage `json:"document,omitempty"`
	Animation         json.RawMessage `json:"animation,omitempty"`
	Audio             json.RawMessage `json:"audio,omitempty"`
	Contact           json.RawMessage `json:"contact,omitempty"`
	Game              json.RawMessage `json:"game,omitempty"`
	Invoice           json.RawMessage `json:"invoice,omitempty"`
	LeftChatMember    json.RawMessage `json:"left_chat_member,omitempty"`
	Location          json.RawMessage `json:"location,omitempty"`
	NewChatMembers    json.RawMessage `json:"new_chat_members,omitempty"`
	NewChatPhoto      json.RawMessage `json:"new_chat_photo,omitempty"`
	NewChatTitle      string          `json:"new_chat_title,omitempty"`
	Photo             json.RawMessage `json:"photo,omitempty"`
	Sticker           json.RawMessage `json:"sticker,omitempty"`
	SuccessfulPayment json.RawMessage `json:"successful_payment,omitempty"`
	Venue             json.RawMessage `json:"venue,omitempty"`
	Video             json.RawMessage `json:"video,omitempty"`
	VideoNote         json.RawMessage `json:"video_note,omitempty"`
	Voice             json.RawMessage `json:"voice,omitempty"`
}

type CallbackQuery struct {
	ID              string   `json:"id"`
	From            User     `json:"from"`
	Message         *Message `json:"message,omitempty"`
	InlineMessageID string   `json:"inline_message_id,omitempty"`
	ChatInstance    string   `json:"chat_instance,omitempty"`
	Data            string   `json:"data,omitempty"`
}

type InlineQuery struct {
	ID     string `json:"id"`
	From   User   `json:"from"`
	Query  string `json:"query"`
	Offset string `json:"offset,omitempty"`
}

type ChosenInlineResult struct {
	ResultID        string `json:"result_id"`
	From            User   `json:"from"`
	Query           string `json:"query"`
	InlineMessageID string `json:"inline_message_id,omitempty"`
}

type ShippingQuery struct {
	ID              string          `json:"id"`
	From            User            `json:"from"`
	InvoicePayload  string          `json:"invoice_payload"`
	ShippingAddress json.RawMessage `json:"shipping_address,omitempty"`
}

type PreCheckoutQuery struct {
	ID             string `json:"id"`
	From           User   `json:"from"`
	Currency       string `json:"currency"`
	TotalAmount    int64  `json:"total_amount"`
	InvoicePayload string `json:"invoice_payload"`
}

type Poll struct {
	ID       string          `json:"id"`
	Question string          `json:"question"`
	Options  json.RawMessage `json:"options,omitempty"`
	IsClosed bool            `json:"is_closed,omitempty"`
}

type PollAnswer struct {
	PollID    string `json:"poll_id"`
	VoterChat *Chat  `json:"voter_chat,omitempty"`
	User      *User  `json:"user,omitempty"`
	OptionIDs []int  `json:"option_ids"`
}

type ChatMemberUpdated struct {
	Chat          Chat            `json:"chat"`
	From          User            `json:"from"`
	Date          int64           `json:"date,omitempty"`
	OldChatMember json.RawMessage `json:"old_chat_member,omitempty"`
	NewChatMember json.RawMessage `json:"new_chat_member,omitempty"`
}

type ChatJoinRequest struct {
	Chat       Chat   `json:"chat"`
	From       User   `json:"from"`
	UserChatID int64  `json:"user_chat_id,omitempty"`
	Date       int64  `json:"date,omitempty"`
	Bio        string `json:"bio,omitempty"`
}

// PayloadKind names the payload variant an Update carries.
type PayloadKind string

const (
	PayloadNone               PayloadKind = ""
	PayloadMessage            PayloadKind = "message"
	PayloadEditedMessage      PayloadKind = "edited_message"
	PayloadChannelPost        PayloadKind = "channel_post"
	PayloadEditedChannelPost  PayloadKind = "edited_channel_post"
	PayloadCallbackQuery      PayloadKind = "callback_query"
	PayloadInlineQuery        PayloadKind = "inline_query"
	PayloadChosenInlineResult PayloadKind = "chosen_inline_result"
	PayloadShippingQuery      PayloadKind = "shipping_query"
	PayloadPreCheckoutQuery   PayloadKind = "pre_checkout_query"
	PayloadPoll               PayloadKind = "poll"
	PayloadPollAnswer         PayloadKind = "poll_answer"
	PayloadMyChatMember       PayloadKind = "my_chat_member"
	PayloadChatMember         PayloadKind = "chat_member"
	PayloadChatJoinRequest    PayloadKind = "chat_join_request"
)

var payloadKinds = []PayloadKind{
	PayloadMessage,
	PayloadEditedMessage,
	PayloadChannelPost,
	PayloadEditedChannelPost,
	PayloadCallbackQuery,
	PayloadInlineQuery,
	PayloadChosenInlineResult,
	PayloadShippingQuery,
	PayloadPreCheckoutQuery,
	PayloadPoll,
	PayloadPollAnswer,
	PayloadMyChatMember,
	PayloadChatMember,
	PayloadChatJoinRequest,
}

// DecodeUpdate parses one inbound event. An object without update_id, or
// with more than one payload, is rejected before an Update is built.
//
// Example usage:
//
//	upd, err := yatgbot.DecodeUpdate(body)
//	if err != nil {
//		return err.Wrap("bad webhook body")
//	}
func DecodeUpdate(data []byte) (*Update, yaerrors.Error) {
	var fields map[string]json.RawMessage

	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, yaerrors.FromError(
			http.StatusBadRequest,
			errors.Join(err, ErrMalformedUpdate),
			"[UPDATE] failed to decode update object",
		)
	}

	if _, ok := fields[KeyUpdateID]; !ok {
		return nil, yaerrors.FromError(
			http.StatusBadRequest,
			ErrMissingUpdateID,
			"[UPDATE] rejected update",
		)
	}

	var present []PayloadKind

	for _, kind := range payloadKinds {
		if raw, ok := fields[string(kind)]; ok && hasPayload(raw) {
			present = append(present, kind)
		}
	}

	if len(present) > 1 {
		return nil, yaerrors.FromError(
			http.StatusBadRequest,
			ErrAmbiguousUpdate,
			fmt.Sprintf("[UPDATE] rejected update carrying %v", present),
		)
	}

	var update Update

	if err := json.Unmarshal(data, &update); err != nil {
		return nil, yaerrors.FromError(
			http.StatusBadRequest,
			errors.Join(err, ErrMalformedUpdate),
			"[UPDATE] failed to decode update payload",
		)
	}

	return &update, nil
}

// DecodePayload decodes a raw sub-payload of a Message into into.
//
// Example usage:
//
//	var location struct {
//		Latitude  float64 `json:"latitude"`
//		Longitude float64 `json:"longitude"`
//	}
//	err := yatgbot.DecodePayload(data.Update.Message.Location, &location)
func DecodePayload(raw json.RawMessage, into any) yaerrors.Error {
	if !hasPayload(raw) {
		return yaerrors.FromError(
			http.StatusNotFound,
			ErrPayloadAbsent,
			fmt.Sprintf("[UPDATE] nothing to decode into %T", into),
		)
	}

	if err := json.Unmarshal(raw, into); err != nil {
		return yaerrors.FromError(
			http.StatusBadRequest,
			errors.Join(err, ErrMalformedUpdate),
			fmt.Sprintf("[UPDATE] failed to decode payload into %T", into),
		)
	}

	return nil
}

// hasPayload reports whether raw carries a value; null and empty arrays do not.
func hasPayload(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false
	}

	if trimmed[0] == '[' && len(trimmed) >= 2 {
		return len(bytes.TrimSpace(trimmed[1:len(trimmed)-1])) > 0
	}

	return true
}

// Kind names the payload variant this update carries.
func (u *Update) Kind() PayloadKind {
	switch {
	case u.Message != nil:
		return PayloadMessage
	case u.EditedMessage != nil:
		return PayloadEditedMessage
	case u.ChannelPost != nil:
		return PayloadChannelPost
	case u.EditedChannelPost != nil:
		return PayloadEditedChannelPost
	case u.CallbackQuery != nil:
		return PayloadCallbackQuery
	case u.InlineQuery != nil:
		return PayloadInlineQuery
	case u.ChosenInlineResult != nil:
		return PayloadChosenInlineResult
	case u.ShippingQuery != nil:
		return PayloadShippingQuery
	case u.PreCheckoutQuery != nil:
		return PayloadPreCheckoutQuery
	case u.Poll != nil:
		return PayloadPoll
	case u.PollAnswer != nil:
		return PayloadPollAnswer
	case u.MyChatMember != nil:
		return PayloadMyChatMember
	case u.ChatMember != nil:
		return PayloadChatMember
	case u.ChatJoinRequest != nil:
		return PayloadChatJoinRequest
	default:
		return PayloadNone
	}
}

// anyMessage returns the Message of any message-shaped payload.
func (u *Update) anyMessage() *Message {
	switch {
	case u.Message != nil:
		return u.Message
	case u.EditedMessage != nil:
		return u.EditedMessage
	case u.ChannelPost != nil:
		return u.ChannelPost
	case u.EditedChannelPost != nil:
		return u.EditedChannelPost
	default:
		return nil
	}
}

// ChatID derives the chat the update belongs to. Inline queries, chosen inline
// results, shipping and pre-checkout queries, polls and callbacks from inline
// messages have none.
func (u *Update) ChatID() (int64, bool) {
	if msg := u.anyMessage(); msg != nil {
		if msg.Chat == nil {
			return 0, false
		}

		return msg.Chat.ID, true
	}

	switch {
	case u.CallbackQuery != nil:
		if u.CallbackQuery.Message != nil && u.CallbackQuery.Message.Chat != nil {
			return u.CallbackQuery.Message.Chat.ID, true
		}
	case u.PollAnswer != nil:
		if u.PollAnswer.VoterChat != nil {
			return u.PollAnswer.VoterChat.ID, true
		}
	case u.MyChatMember != nil:
		return u.MyChatMember.Chat.ID, true
	case u.ChatMember != nil:
		return u.ChatMember.Chat.ID, true
	case u.ChatJoinRequest != nil:
		return u.ChatJoinRequest.Chat.ID, true
	}

	return 0, false
}

// UserID derives the user who caused the update. Polls and anonymous channel
// posts have none.
func (u *Update) UserID() (int64, bool) {
	if msg := u.anyMessage(); msg != nil {
		if msg.From == nil {
			return 0, false
		}

		return msg.From.ID, true
	}

	switch {
	case u.CallbackQuery != nil:
		return u.CallbackQuery.From.ID, true
	case u.InlineQuery != nil:
		return u.InlineQuery.From.ID, true
	case u.ChosenInlineResult != nil:
		return u.ChosenInlineResult.From.ID, true
	case u.ShippingQuery != nil:
		return u.ShippingQuery.From.ID, true
	case u.PreCheckoutQuery != nil:
		return u.PreCheckoutQuery.From.ID, true
	case u.PollAnswer != nil:
		if u.PollAnswer.User != nil {
			return u.PollAnswer.User.ID, true
		}
	case u.MyChatMember != nil:
		return u.MyChatMember.From.ID, true
	case u.ChatMember != nil:
		return u.ChatMember.From.ID, true
	case u.ChatJoinRequest != nil:
		return u.ChatJoinRequest.From.ID, true
	}

	return 0, false
}
