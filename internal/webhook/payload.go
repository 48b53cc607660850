package webhook

import (
	"fmt"

	"nextalk-desk/internal/models"
)

// Payload is the Meta webhook envelope for WhatsApp Business events.
type Payload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

type Value struct {
	MessagingProduct string           `json:"messaging_product"`
	Contacts         []WebhookContact `json:"contacts"`
	Messages         []InboundMessage `json:"messages"`
	Statuses         []Status         `json:"statuses"`
}

type WebhookContact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

type InboundMessage struct {
	ID        string        `json:"id"`
	From      string        `json:"from"`
	Timestamp string        `json:"timestamp"`
	Type      string        `json:"type"`
	Text      *TextContent  `json:"text,omitempty"`
	Image     *MediaContent `json:"image,omitempty"`
	Document  *MediaContent `json:"document,omitempty"`
	Audio     *MediaContent `json:"audio,omitempty"`
	Video     *MediaContent `json:"video,omitempty"`
	Location  *Location     `json:"location,omitempty"`
	Contacts  []SharedCard  `json:"contacts,omitempty"`
}

type TextContent struct {
	Body string `json:"body"`
}

type MediaContent struct {
	ID       string `json:"id"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

type SharedCard struct {
	Name struct {
		FormattedName string `json:"formatted_name"`
	} `json:"name"`
}

type Status struct {
	ID          string        `json:"id"`
	Status      string        `json:"status"`
	RecipientID string        `json:"recipient_id"`
	Errors      []StatusError `json:"errors,omitempty"`
}

type StatusError struct {
	Code      int    `json:"code"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	ErrorData struct {
		Details string `json:"details"`
	} `json:"error_data"`
}

// MessageContent is the uniform shape every inbound payload kind is
// classified into before it becomes a ticket message.
type MessageContent struct {
	Type     models.MessageKind
	Content  string
	MediaID  string
	MimeType string
	Filename string
}

// ClassifyContent maps the per-type WhatsApp payload into MessageContent,
// with the original placeholder captions for media without one.
func ClassifyContent(msg InboundMessage) MessageContent {
	switch msg.Type {
	case "text":
		if msg.Text == nil {
			return MessageContent{Type: models.KindText}
		}
		return MessageContent{Type: models.KindText, Content: msg.Text.Body}

	case "image":
		out := MessageContent{Type: models.KindImage, Content: "[Imagem]"}
		if msg.Image != nil {
			if msg.Image.Caption != "" {
				out.Content = msg.Image.Caption
			}
			out.MediaID = msg.Image.ID
			out.MimeType = msg.Image.MimeType
		}
		return out

	case "document":
		out := MessageContent{Type: models.KindDocument, Content: "[Documento]"}
		if msg.Document != nil {
			switch {
			case msg.Document.Caption != "":
				out.Content = msg.Document.Caption
			case msg.Document.Filename != "":
				out.Content = msg.Document.Filename
			}
			out.MediaID = msg.Document.ID
			out.MimeType = msg.Document.MimeType
			out.Filename = msg.Document.Filename
		}
		return out

	case "audio":
		out := MessageContent{Type: models.KindAudio, Content: "[Áudio]"}
		if msg.Audio != nil {
			out.MediaID = msg.Audio.ID
			out.MimeType = msg.Audio.MimeType
		}
		return out

	case "video":
		out := MessageContent{Type: models.KindVideo, Content: "[Vídeo]"}
		if msg.Video != nil {
			if msg.Video.Caption != "" {
				out.Content = msg.Video.Caption
			}
			out.MediaID = msg.Video.ID
			out.MimeType = msg.Video.MimeType
		}
		return out

	case "location":
		out := MessageContent{Type: models.KindLocation, Content: "[Localização]"}
		if msg.Location != nil {
			out.Content = fmt.Sprintf("📍 Localização: %v, %v", msg.Location.Latitude, msg.Location.Longitude)
		}
		return out

	case "contacts":
		name := "Sem nome"
		if len(msg.Contacts) > 0 && msg.Contacts[0].Name.FormattedName != "" {
			name = msg.Contacts[0].Name.FormattedName
		}
		return MessageContent{Type: models.KindContacts, Content: fmt.Sprintf("👤 Contato: %s", name)}

	default:
		return MessageContent{
			Type:    models.MessageKind(msg.Type),
			Content: fmt.Sprintf("[Mensagem não suportada: %s]", msg.Type),
		}
	}
}

// SenderName resolves the profile name for a wa_id, falling back to the
// phone number itself.
func (v Value) SenderName(waID string) string {
	for _, c := range v.Contacts {
		if c.WaID == waID && c.Profile.Name != "" {
			return c.Profile.Name
		}
	}
	return waID
}
