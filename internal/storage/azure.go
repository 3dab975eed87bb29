package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/sirupsen/logrus"
)

// AzureStorage archives snapshots in an Azure Blob Storage container.
type AzureStorage struct {
	client        *azblob.Client
	containerName string
}

var _ StorageInterface = (*AzureStorage)(nil)

// NewAzureStorage creates an Azure-backed snapshot archive, authenticating
// via the default credential chain (managed identity in production).
func NewAzureStorage(accountName, containerName string) (*AzureStorage, error) {
	if accountName == "" {
		return nil, fmt.Errorf("storage account name is required")
	}

	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)
	client, err := azblob.NewClient(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure blob client: %w", err)
	}

	s := &AzureStorage{
		client:        client,
		containerName: containerName,
	}

	// Container creation is idempotent enough for startup: an existing
	// container is not an error.
	_, err = s.client.CreateContainer(context.Background(), containerName, nil)
	if err != nil && !strings.Contains(err.Error(), "ContainerAlreadyExists") {
		return nil, fmt.Errorf("failed to ensure container exists: %w", err)
	}

	return s, nil
}

// Store uploads a snapshot blob.
func (s *AzureStorage) Store(filename string, data []byte) error {
	_, err := s.client.UploadBuffer(context.Background(), s.containerName, filename, data, nil)
	if err != nil {
		return fmt.Errorf("failed to upload blob %s: %w", filename, err)
	}

	logrus.Debugf("Archived %s to Azure Blob Storage", filename)
	return nil
}

// Retrieve downloads a snapshot blob.
func (s *AzureStorage) Retrieve(filename string) ([]byte, error) {
	response, err := s.client.DownloadStream(context.Background(), s.containerName, filename, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob %s: %w", filename, err)
	}
	defer response.Body.Close()

	return io.ReadAll(response.Body)
}

// List returns the blob names under a prefix.
func (s *AzureStorage) List(prefix string) ([]string, error) {
	var names []string
	pager := s.client.NewListBlobsFlatPager(s.containerName, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})

	for pager.More() {
		page, err := pager.NextPage(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs: %w", err)
		}
		for _, blob := range page.Segment.BlobItems {
			if blob.Name != nil {
				names = append(names, *blob.Name)
			}
		}
	}

	return names, nil
}

// Delete removes a snapshot blob.
func (s *AzureStorage) Delete(filename string) error {
	_, err := s.client.DeleteBlob(context.Background(), s.containerName, filename, nil)
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", filename, err)
	}
	return nil
}
