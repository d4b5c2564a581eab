package export

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"

	"github.com/dvloznov/statement-extractor/internal/domain"
)

// notionPages is the slice of the Notion SDK the exporter needs. The
// indirection keeps the property mapping testable without network access.
type notionPages interface {
	CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error)
}

type notionClient struct {
	client *notionapi.Client
}

func (n *notionClient) CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error) {
	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(databaseID),
		},
		Properties: properties,
	}
	page, err := n.client.Page.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("CreatePage: %w", err)
	}
	return page, nil
}

// NotionExporter creates one page per transaction in a Notion database.
type NotionExporter struct {
	DatabaseID string

	pages notionPages
}

// NewNotionExporter builds the exporter against the Notion API.
func NewNotionExporter(token, databaseID string) *NotionExporter {
	return &NotionExporter{
		DatabaseID: databaseID,
		pages:      &notionClient{client: notionapi.NewClient(notionapi.Token(token))},
	}
}

func (e *NotionExporter) Name() string { return "notion" }

func (e *NotionExporter) Export(ctx context.Context, txs []domain.Transaction) error {
	for _, tx := range txs {
		if _, err := e.pages.CreatePage(ctx, e.DatabaseID, transactionProperties(tx)); err != nil {
			return fmt.Errorf("notion export: transaction %s: %w", tx.ID, err)
		}
	}
	return nil
}

// transactionProperties converts a transaction to Notion page properties.
func transactionProperties(tx domain.Transaction) notionapi.Properties {
	props := notionapi.Properties{
		"Description": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.Description,
					},
				},
			},
		},
		"ID": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.ID,
					},
				},
			},
		},
		"Currency": notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: tx.Currency,
			},
		},
		"Bank": notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: tx.Bank,
			},
		},
	}

	// Date only when the statement date normalized to ISO.
	if t, err := time.Parse("2006-01-02", tx.TransactionDate); err == nil {
		d := notionapi.Date(t)
		props["Date"] = notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: &d,
			},
		}
	}

	if tx.HasValue() {
		props["Amount"] = notionapi.NumberProperty{
			Number: tx.ValueOrZero(),
		}
	}

	if tx.Type != "" {
		props["Type"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: tx.Type,
			},
		}
	}

	if tx.Partner.Name != "" {
		props["Partner"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.Partner.Name,
					},
				},
			},
		}
	}

	if tx.Source != "" {
		props["Source"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.Source,
					},
				},
			},
		}
	}

	return props
}
