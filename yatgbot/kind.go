package yatgbot

import (
	"strings"
	"unicode"
)

// UpdateKind is one classification predicate. The first four kinds are keyed:
// their registries resolve a handler by pattern. The rest hold one handler.
type UpdateKind uint8

const (
	KindCommand UpdateKind = iota
	KindMessage
	KindCallback
	KindInline
	KindChannelPost
	KindEditedMessage
	KindEditedChannelPost
	KindChosenInlineResult
	KindShippingQuery
	KindPreCheckoutQuery
	KindPoll
	KindPollAnswer
	KindMyChatMember
	KindChatMember
	KindChatJoinRequest
	KindDice
	KindDocument
	KindAnimation
	KindAudio
	KindContact
	KindGame
	KindInvoice
	KindLeftChatMember
	KindLocation
	KindNewChatMembers
	KindNewChatPhoto
	KindNewChatTitle
	KindPhoto
	KindSticker
	KindSuccessfulPayment
	KindVenue
	KindVideo
	KindVideoNote
	KindVoice

	kindCount
)

var kindNames = [kindCount]string{
	KindCommand:            "command",
	KindMessage:            "message",
	KindCallback:           "callback",
	KindInline:             "inline",
	KindChannelPost:        "channel_post",
	KindEditedMessage:      "edited_message",
	KindEditedChannelPost:  "edited_channel_post",
	KindChosenInlineResult: "chosen_inline_result",
	KindShippingQuery:      "shipping_query",
	KindPreCheckoutQuery:   "pre_checkout_query",
	KindPoll:               "poll",
	KindPollAnswer:         "poll_answer",
	KindMyChatMember:       "my_chat_member",
	KindChatMember:         "chat_member",
	KindChatJoinRequest:    "chat_join_request",
	KindDice:               "dice",
	KindDocument:           "document",
	KindAnimation:          "animation",
	KindAudio:              "audio",
	KindContact:            "contact",
	KindGame:               "game",
	KindInvoice:            "invoice",
	KindLeftChatMember:     "left_chat_member",
	KindLocation:           "location",
	KindNewChatMembers:     "new_chat_members",
	KindNewChatPhoto:       "new_chat_photo",
	KindNewChatTitle:       "new_chat_title",
	KindPhoto:              "photo",
	KindSticker:            "sticker",
	KindSuccessfulPayment:  "successful_payment",
	KindVenue:              "venue",
	KindVideo:              "video",
	KindVideoNote:          "video_note",
	KindVoice:              "voice",
}

func (k UpdateKind) String() string {
	if !k.Valid() {
		return "unknown"
	}

	return kindNames[k]
}

// Valid reports whether k is a declared kind.
func (k UpdateKind) Valid() bool {
	return k < kindCount
}

// Keyed reports whether k resolves handlers by pattern.
func (k UpdateKind) Keyed() bool {
	return k <= KindInline
}

const commandPrefix = "/"

// match evaluates the predicate of k. Keyed kinds also return the routing key.
//
// Overlapping payloads are resolved here so that at most one kind of each
// overlapping pair can match:
//
//   - command and message split on the leading slash;
//   - an animation message also carries a document: only animation matches;
//   - a venue message also carries a location: only venue matches.
//
// Every other pair is disjoint by payload field. Media kinds look at the
// plain message payload only; channel posts and edits have their own kinds.
func (k UpdateKind) match(u *Update) (string, bool) {
	msg := u.Message

	switch k {
	case KindCommand:
		if msg == nil || !strings.HasPrefix(msg.Text, commandPrefix) {
			return "", false
		}

		name, _ := splitCommand(msg.Text)

		return name, true
	case KindMessage:
		if msg == nil || msg.Text == "" || strings.HasPrefix(msg.Text, commandPrefix) {
			return "", false
		}

		return msg.Text, true
	case KindCallback:
		if u.CallbackQuery == nil {
			return "", false
		}

		return u.CallbackQuery.Data, true
	case KindInline:
		if u.InlineQuery == nil {
			return "", false
		}

		return u.InlineQuery.Query, true
	case KindChannelPost:
		return "", u.ChannelPost != nil
	case KindEditedMessage:
		return "", u.EditedMessage != nil
	case KindEditedChannelPost:
		return "", u.EditedChannelPost != nil
	case KindChosenInlineResult:
		return "", u.ChosenInlineResult != nil
	case KindShippingQuery:
		return "", u.ShippingQuery != nil
	case KindPreCheckoutQuery:
		return "", u.PreCheckoutQuery != nil
	case KindPoll:
		return "", u.Poll != nil
	case KindPollAnswer:
		return "", u.PollAnswer != nil
	case KindMyChatMember:
		return "", u.MyChatMember != nil
	case KindChatMember:
		return "", u.ChatMember != nil
	case KindChatJoinRequest:
		return "", u.ChatJoinRequest != nil
	}

	if msg == nil {
		return "", false
	}

	switch k {
	case KindDice:
		return "", hasPayload(msg.Dice)
	case KindDocument:
		return "", hasPayload(msg.Document) && !hasPayload(msg.Animation)
	case KindAnimation:
		return "", hasPayload(msg.Animation)
	case KindAudio:
		return "", hasPayload(msg.Audio)
	case KindContact:
		return "", hasPayload(msg.Contact)
	case KindGame:
		return "", hasPayload(msg.Game)
	case KindInvoice:
		return "", hasPayload(msg.Invoice)
	case KindLeftChatMember:
		return "", hasPayload(msg.LeftChatMember)
	case KindLocation:
		return "", hasPayload(msg.Location) && !hasPayload(msg.Venue)
	case KindNewChatMembers:
		return "", hasPayload(msg.NewChatMembers)
	case KindNewChatPhoto:
		return "", hasPayload(msg.NewChatPhoto)
	case KindNewChatTitle:
		return "", msg.NewChatTitle != ""
	case KindPhoto:
		return "", hasPayload(msg.Photo)
	case KindSticker:
		return "", hasPayload(msg.Sticker)
	case KindSuccessfulPayment:
		return "", hasPayload(msg.SuccessfulPayment)
	case KindVenue:
		return "", hasPayload(msg.Venue)
	case KindVideo:
		return "", hasPayload(msg.Video)
	case KindVideoNote:
		return "", hasPayload(msg.VideoNote)
	case KindVoice:
		return "", hasPayload(msg.Voice)
	default:
		return "", false
	}
}

// splitCommand turns "/start@my_bot  deep link" into ("start", "deep link").
func splitCommand(text string) (string, string) {
	text = strings.TrimPrefix(text, commandPrefix)

	head, args := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		head, args = text[:i], text[i:]
	}

	name, _, _ := strings.Cut(head, "@")

	return name, strings.TrimSpace(args)
}
