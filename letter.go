package epost

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Quosimadu/epost-api/internal/api"
	"github.com/Quosimadu/epost-api/internal/codec"
)

// LetterState is the lifecycle stage of a Letter.
type LetterState int

const (
	// LetterBuilding is the state of a letter that has not been submitted.
	LetterBuilding LetterState = iota
	// LetterSubmitted is the state after the API accepted the letter.
	LetterSubmitted
	// LetterStatusKnown is the state after the letter's status was queried.
	LetterStatusKnown
)

func (s LetterState) String() string {
	switch s {
	case LetterBuilding:
		return "building"
	case LetterSubmitted:
		return "submitted"
	case LetterStatusKnown:
		return "status known"
	default:
		return fmt.Sprintf("LetterState(%d)", int(s))
	}
}

// Letter payload keys.
const (
	keyCoverData = "coverData"
	keyFileName  = "fileName"
	keyData      = "data"
	keyTestFlag  = "testFlag"
)

// document is a named PDF held in memory.
type document struct {
	name string
	data []byte
}

// Letter is a single submission: an envelope, a PDF attachment, an optional
// cover letter and delivery options. Create letters with Client.NewLetter; a
// zero Letter fails remote calls with ErrUnboundLetter. A Letter is not safe
// for concurrent use.
type Letter struct {
	client *Client

	token           *AccessToken
	envelope        *Envelope
	coverLetter     *document
	attachment      *document
	options         *DeliveryOptions
	testEnvironment bool

	state     LetterState
	letterIDs []LetterID
}

// SetAccessToken sets the token used for remote calls.
func (l *Letter) SetAccessToken(token *AccessToken) *Letter {
	l.token = token
	return l
}

// AccessToken returns the token used for remote calls.
func (l *Letter) AccessToken() *AccessToken { return l.token }

// SetEnvelope sets the letter's addressing.
func (l *Letter) SetEnvelope(envelope *Envelope) *Letter {
	l.envelope = envelope
	return l
}

// Envelope returns the letter's envelope or nil.
func (l *Letter) Envelope() *Envelope { return l.envelope }

// SetCoverLetter sets a PDF to be used as cover letter. Passing nil removes it.
func (l *Letter) SetCoverLetter(data []byte) *Letter {
	if len(data) == 0 {
		l.coverLetter = nil
		return l
	}
	l.coverLetter = &document{name: "cover.pdf", data: data}
	return l
}

// SetCoverLetterFile reads the cover letter from path.
func (l *Letter) SetCoverLetterFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read cover letter: %w", err)
	}
	l.coverLetter = &document{name: filepath.Base(path), data: data}
	return nil
}

// SetAttachment sets the PDF to be delivered. Only the base name of fileName
// is sent.
func (l *Letter) SetAttachment(fileName string, data []byte) *Letter {
	l.attachment = &document{name: filepath.Base(fileName), data: data}
	return l
}

// SetAttachmentFile reads the attachment from path.
func (l *Letter) SetAttachmentFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read attachment: %w", err)
	}
	l.SetAttachment(path, data)
	return nil
}

// SetDeliveryOptions sets printing options. They only apply to hybrid letters.
func (l *Letter) SetDeliveryOptions(options *DeliveryOptions) *Letter {
	l.options = options
	return l
}

// DeliveryOptions returns the delivery options or nil.
func (l *Letter) DeliveryOptions() *DeliveryOptions { return l.options }

// SetTestEnvironment marks the letter as a test submission.
func (l *Letter) SetTestEnvironment(enabled bool) *Letter {
	l.testEnvironment = enabled
	return l
}

// IsTestEnvironment reports whether the letter is a test submission.
func (l *Letter) IsTestEnvironment() bool { return l.testEnvironment }

// SetLetterID attaches an id of a letter submitted elsewhere, so its status
// can be queried. The letter is then treated as submitted.
func (l *Letter) SetLetterID(id LetterID) *Letter {
	l.letterIDs = []LetterID{id}
	if l.state == LetterBuilding {
		l.state = LetterSubmitted
	}
	return l
}

// LetterID returns the id assigned on submission. For an electronic letter
// with several recipients this is the id of the first one.
func (l *Letter) LetterID() (LetterID, error) {
	if len(l.letterIDs) == 0 {
		return "", missing(ErrMissingLetterID, "submit the letter or set a letter id beforehand")
	}
	return l.letterIDs[0], nil
}

// LetterIDs returns all ids assigned on submission, one per recipient.
func (l *Letter) LetterIDs() []LetterID {
	out := make([]LetterID, len(l.letterIDs))
	copy(out, l.letterIDs)
	return out
}

// State returns the letter's lifecycle stage.
func (l *Letter) State() LetterState { return l.state }

func (l *Letter) requireToken() error {
	if l.client == nil {
		return missing(ErrUnboundLetter, "create letters with Client.NewLetter")
	}
	if l.token.Token() == "" {
		return missing(ErrMissingAccessToken, "set an access token beforehand")
	}
	return nil
}

func (l *Letter) logger() *zap.Logger {
	if l.client == nil {
		return zap.NewNop()
	}
	return l.client.logger
}

// Submit sends the letter. All local checks run before any request is made;
// on a remote failure the letter stays in LetterBuilding and may be submitted
// again. Submit is never retried automatically.
func (l *Letter) Submit(ctx context.Context) error {
	if l.state != LetterBuilding {
		return fmt.Errorf("%w as %s", ErrAlreadySubmitted, l.letterIDs[0])
	}

	letters, err := l.payloads()
	if err != nil {
		return err
	}

	results, err := l.client.apiClient.SubmitLetters(ctx, l.token.Token(), letters)
	if err != nil {
		return fmt.Errorf("submit letter: %w", err)
	}
	if len(results) == 0 {
		return errors.New("submit letter: response carries no letter id")
	}

	ids := make([]LetterID, 0, len(results))
	for _, r := range results {
		if r.LetterID == "" {
			return errors.New("submit letter: response carries an empty letter id")
		}
		ids = append(ids, r.LetterID)
	}
	l.letterIDs = ids
	l.state = LetterSubmitted

	l.logger().Info("letter submitted",
		zap.Any("letter_ids", ids),
		zap.String("letter_type", string(l.envelope.LetterType())),
		zap.Bool("test", l.testEnvironment))
	return nil
}

// payloads runs the local checks and builds one letter object per recipient.
func (l *Letter) payloads() ([]map[string]interface{}, error) {
	if err := l.requireToken(); err != nil {
		return nil, err
	}
	if l.envelope == nil {
		return nil, missing(ErrMissingEnvelope, "set an envelope beforehand")
	}
	if l.envelope.Len() == 0 {
		return nil, missing(ErrMissingRecipient, "add a recipient beforehand")
	}
	if l.attachment == nil || len(l.attachment.data) == 0 {
		return nil, missing(ErrMissingAttachment, "add an attachment beforehand")
	}
	if err := checkPDF(l.attachment); err != nil {
		return nil, err
	}
	if l.coverLetter != nil {
		if err := checkPDF(l.coverLetter); err != nil {
			return nil, err
		}
	}

	envelopes, err := l.envelope.Payloads()
	if err != nil {
		return nil, err
	}

	content := map[string]interface{}{
		keyCoverLetter: false,
		keyFileName:    l.attachment.name,
		keyData:        codec.ToChunkedBase64(l.attachment.data),
	}
	if l.coverLetter != nil {
		content[keyCoverLetter] = true
		content[keyCoverData] = codec.ToChunkedBase64(l.coverLetter.data)
	}

	var options map[string]interface{}
	if l.options != nil {
		if l.envelope.IsHybrid() {
			options = l.options.Payload()
		} else {
			l.logger().Warn("delivery options ignored for electronic letter")
		}
	}

	out := make([]map[string]interface{}, 0, len(envelopes))
	for _, fields := range envelopes {
		letter := make(map[string]interface{}, len(fields)+len(content)+len(options)+1)
		merge(letter, fields)
		merge(letter, content)
		merge(letter, options)
		if l.testEnvironment {
			letter[keyTestFlag] = true
		}
		out = append(out, letter)
	}
	return out, nil
}

func merge(dst, src map[string]interface{}) {
	for k, v := range src {
		dst[k] = v
	}
}

func checkPDF(doc *document) error {
	if codec.IsPDF(doc.data) {
		return nil
	}
	return &FileFormatError{FileName: doc.name, MIMEType: codec.DetectMIME(doc.data)}
}

// statusRecord converts a transport record.
func statusRecord(r api.StatusRecord) LetterStatus {
	return LetterStatus{
		LetterID: r.LetterID,
		StatusID: StatusID(r.StatusID),
		Errors:   r.ErrorList,
	}
}
