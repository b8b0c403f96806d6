package storage

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"

	"moleculehub/internal/domain"
)

var _ domain.UploadArchiver = (*AzureArchiver)(nil)

// AzureArchiver stores uploads as block blobs in one container.
type AzureArchiver struct {
	client      *azblob.Client
	container   string
	accountName string
}

// NewAzureArchiver authenticates with an account shared key.
func NewAzureArchiver(accountName, accountKey, container string) (*AzureArchiver, error) {
	if accountName == "" || accountKey == "" || container == "" {
		return nil, fmt.Errorf("azure account name, key and container are required")
	}
	cred, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("create shared key credential: %w", err)
	}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", accountName)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create Azure blob client: %w", err)
	}
	return &AzureArchiver{client: client, container: container, accountName: accountName}, nil
}

// Put uploads data as a block blob.
func (a *AzureArchiver) Put(ctx context.Context, key string, data []byte, contentType string) error {
	ct := contentTypeOrDefault(contentType)
	_, err := a.client.UploadBuffer(ctx, a.container, key, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &ct},
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", a.Location(key), err)
	}
	return nil
}

// Location returns the https URL of the blob.
func (a *AzureArchiver) Location(key string) string {
	return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s", a.accountName, a.container, key)
}
