package yatgbot

import "github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"

// RegisterChannelPostHandler registers the handler of channel posts.
func (d *Dispatcher) RegisterChannelPostHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindChannelPost, nil, handler)
}

func (d *Dispatcher) RegisterEditedMessageHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindEditedMessage, nil, handler)
}

func (d *Dispatcher) RegisterEditedChannelPostHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindEditedChannelPost, nil, handler)
}

// RegisterChosenInlineResultHandler registers the handler of chosen inline results.
func (d *Dispatcher) RegisterChosenInlineResultHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindChosenInlineResult, nil, handler)
}

func (d *Dispatcher) RegisterShippingQueryHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindShippingQuery, nil, handler)
}

func (d *Dispatcher) RegisterPreCheckoutQueryHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindPreCheckoutQuery, nil, handler)
}

// RegisterPollHandler registers the handler of poll state updates.
func (d *Dispatcher) RegisterPollHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindPoll, nil, handler)
}

func (d *Dispatcher) RegisterPollAnswerHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindPollAnswer, nil, handler)
}

func (d *Dispatcher) RegisterMyChatMemberHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindMyChatMember, nil, handler)
}

// RegisterChatMemberHandler registers the handler of membership changes.
func (d *Dispatcher) RegisterChatMemberHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindChatMember, nil, handler)
}

func (d *Dispatcher) RegisterChatJoinRequestHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindChatJoinRequest, nil, handler)
}

func (d *Dispatcher) RegisterDiceHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindDice, nil, handler)
}

// RegisterDocumentHandler registers the handler of document messages. Animations never reach it.
func (d *Dispatcher) RegisterDocumentHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindDocument, nil, handler)
}

func (d *Dispatcher) RegisterAnimationHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindAnimation, nil, handler)
}

func (d *Dispatcher) RegisterAudioHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindAudio, nil, handler)
}

// RegisterContactHandler registers the handler of contact messages.
func (d *Dispatcher) RegisterContactHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindContact, nil, handler)
}

func (d *Dispatcher) RegisterGameHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindGame, nil, handler)
}

func (d *Dispatcher) RegisterInvoiceHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindInvoice, nil, handler)
}

// RegisterLeftChatMemberHandler registers the handler of left-member service messages.
func (d *Dispatcher) RegisterLeftChatMemberHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindLeftChatMember, nil, handler)
}

// RegisterLocationHandler registers the handler of location messages. Venues never reach it.
func (d *Dispatcher) RegisterLocationHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindLocation, nil, handler)
}

func (d *Dispatcher) RegisterNewChatMembersHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindNewChatMembers, nil, handler)
}

// RegisterNewChatPhotoHandler registers the handler of chat photo changes.
func (d *Dispatcher) RegisterNewChatPhotoHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindNewChatPhoto, nil, handler)
}

func (d *Dispatcher) RegisterNewChatTitleHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindNewChatTitle, nil, handler)
}

func (d *Dispatcher) RegisterPhotoHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindPhoto, nil, handler)
}

// RegisterStickerHandler registers the handler of sticker messages.
func (d *Dispatcher) RegisterStickerHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindSticker, nil, handler)
}

func (d *Dispatcher) RegisterSuccessfulPaymentHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindSuccessfulPayment, nil, handler)
}

func (d *Dispatcher) RegisterVenueHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindVenue, nil, handler)
}

// RegisterVideoHandler registers the handler of video messages.
func (d *Dispatcher) RegisterVideoHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindVideo, nil, handler)
}

func (d *Dispatcher) RegisterVideoNoteHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindVideoNote, nil, handler)
}

func (d *Dispatcher) RegisterVoiceHandler(handler any) yaerrors.Error {
	return d.RegisterHandler(KindVoice, nil, handler)
}
