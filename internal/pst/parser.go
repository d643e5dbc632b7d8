// Package pst decodes OST/PST archive files into email records using the
// go-pst library.
package pst

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	pstlib "github.com/mooijtech/go-pst/v6/pkg"
	"github.com/mooijtech/go-pst/v6/pkg/properties"
	"github.com/varunsharma/ostexplorer/internal/model"
)

// Parser reads email messages out of OST/PST archives. It implements
// api.ArchiveParser.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new archive parser.
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse walks every folder in the archive at path and collects its messages.
// Malformed individual messages are logged and skipped rather than failing
// the whole archive.
func (p *Parser) Parse(ctx context.Context, path string) ([]model.Email, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	pstFile, err := pstlib.New(f)
	if err != nil {
		return nil, fmt.Errorf("read archive structure: %w", err)
	}
	defer pstFile.Cleanup()

	var emails []model.Email
	var skipped int

	err = pstFile.WalkFolders(func(folder *pstlib.Folder) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		messageIterator, err := folder.GetMessageIterator()
		if errors.Is(err, pstlib.ErrMessagesNotFound) {
			return nil
		}
		if err != nil {
			p.logger.Warn("skipping unreadable folder", "folder", folder.Name, "error", err)
			return nil
		}

		for messageIterator.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			message := messageIterator.Value()
			props, ok := mailProperties(message)
			if !ok {
				continue
			}
			email, err := p.convertMessage(message, props)
			if err != nil {
				skipped++
				p.logger.Warn("skipping malformed message", "folder", folder.Name, "error", err)
				continue
			}
			emails = append(emails, email)
		}
		return messageIterator.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("walk folders: %w", err)
	}

	p.logger.Info("parsed archive", "path", path, "emails", len(emails), "skipped", skipped)
	return emails, nil
}

// mailProperties returns the mail property bag of a message. Archives also
// carry appointment, contact, and task items whose property bags lack mail
// headers entirely; those are not convertible and get skipped.
func mailProperties(message *pstlib.Message) (*properties.Message, bool) {
	if message == nil {
		return nil, false
	}
	props, ok := message.Properties.(*properties.Message)
	return props, ok
}

// convertMessage maps a go-pst message and its mail properties onto the wire
// model.
func (p *Parser) convertMessage(message *pstlib.Message, props *properties.Message) (model.Email, error) {
	email := model.Email{
		EmailID:     fmt.Sprintf("%d", message.Identifier),
		Subject:     props.GetSubject(),
		SenderName:  props.GetSenderName(),
		SenderEmail: props.GetSenderEmailAddress(),
		Recipients:  props.GetDisplayTo(),
		Body:        props.GetBody(),
	}

	if ft := props.GetMessageDeliveryTime(); ft != 0 {
		email.Date = model.NewTimestamp(filetimeToTime(ft))
	}

	names, err := attachmentNames(message)
	if err != nil {
		return model.Email{}, fmt.Errorf("read attachments: %w", err)
	}
	email.AttachmentNames = names
	email.AttachmentCount = len(names)
	email.HasAttachments = len(names) > 0

	return email, nil
}

// attachmentNames collects the display name of every attachment. An archive
// message without attachments is the common case, not an error.
func attachmentNames(message *pstlib.Message) ([]string, error) {
	attachmentIterator, err := message.GetAttachmentIterator()
	if errors.Is(err, pstlib.ErrAttachmentsNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	names := []string{}
	for attachmentIterator.Next() {
		attachment := attachmentIterator.Value()
		name := attachment.GetAttachLongFilename()
		if name == "" {
			name = attachment.GetAttachFilename()
		}
		if name == "" {
			name = "untitled"
		}
		names = append(names, name)
	}
	return names, attachmentIterator.Err()
}

// filetimeToTime converts a Windows FILETIME value (100ns intervals since
// 1601-01-01) to a UTC time.
func filetimeToTime(ft int64) time.Time {
	const epochDelta = 11644473600 // seconds between 1601 and 1970
	secs := ft/10_000_000 - epochDelta
	nanos := (ft % 10_000_000) * 100
	return time.Unix(secs, nanos).UTC()
}
