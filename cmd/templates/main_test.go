package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sk4ndal-commits/UGCMarketPlace/internal/events"
	"github.com/sk4ndal-commits/UGCMarketPlace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	imported []models.Template
	deleted  []string
}

func (f *fakeCatalog) Import(_ context.Context, list []models.Template) (int, error) {
	f.imported = append(f.imported, list...)
	return len(list), nil
}

func (f *fakeCatalog) ListAll(context.Context) ([]models.Template, error) {
	return f.imported, nil
}

func (f *fakeCatalog) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type recordingPublisher struct {
	channels []string
	events   []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, e events.Event) error {
	p.channels = append(p.channels, channel)
	p.events = append(p.events, e)
	return nil
}

const sampleCatalog = `
templates:
  - template_id: react-spa
    name: React SPA
    description: Single page app
    is_available: true
    required_parameters: [app_name, region]
    default_parameters:
      node_version: "20"
`

func TestLoadCatalog(t *testing.T) {
	list, err := loadCatalog(strings.NewReader(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "react-spa", list[0].TemplateID)
	assert.Equal(t, []string{"app_name", "region"}, list[0].RequiredParameters)
	assert.Equal(t, "20", list[0].DefaultParameters["node_version"])

	_, err = loadCatalog(strings.NewReader("templates:\n  - template_idd: typo\n"))
	assert.Error(t, err)
}

func TestRunCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	svc := &fakeCatalog{}
	pub := &recordingPublisher{}
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), svc, pub, []string{"import", "-file", path}, &out))
	assert.Contains(t, out.String(), "imported 1 templates")

	out.Reset()
	require.NoError(t, run(context.Background(), svc, pub, []string{"list"}, &out))
	assert.Contains(t, out.String(), "react-spa")

	require.NoError(t, run(context.Background(), svc, pub, []string{"delete", "react-spa"}, &out))
	assert.Equal(t, []string{"react-spa"}, svc.deleted)

	// list does not announce anything
	require.Len(t, pub.events, 2)
	assert.Equal(t, []string{events.ChannelTemplates, events.ChannelTemplates}, pub.channels)
	assert.Equal(t, "import", pub.events[0].Payload["action"])
	assert.Equal(t, []string{"react-spa"}, pub.events[0].Payload["template_ids"])
	assert.Equal(t, "delete", pub.events[1].Payload["action"])

	assert.Error(t, run(context.Background(), svc, nil, []string{"delete"}, &out))
	assert.Error(t, run(context.Background(), svc, nil, []string{"frobnicate"}, &out))
}

func TestShippedCatalogParses(t *testing.T) {
	f, err := os.Open(filepath.Join("..", "..", "templates", "catalog.yaml"))
	require.NoError(t, err)
	defer f.Close()
	list, err := loadCatalog(f)
	require.NoError(t, err)
	for i := range list {
		assert.True(t, models.ValidateTemplate(&list[i]).Empty(), list[i].TemplateID)
	}
}
