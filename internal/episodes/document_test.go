// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package episodes

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
  "metadata": {
    "generatedAt": "2025-01-02T03:04:05.000Z",
    "totalEpisodes": 1,
    "source": "https://www.givewell.org/about/official-records"
  },
  "episodes": [
    {
      "id": "meeting-07_2008-01-24",
      "meetingNumber": 7,
      "title": "Clear Fund Board Meeting",
      "description": "Budget & café <review>",
      "attachments": [
        {
          "filename": "Agenda.pdf",
          "type": "agenda",
          "label": "Agenda",
          "title": "Agenda"
        },
        {
          "filename": "Minutes.docx",
          "text": "old text",
          "type": "minutes"
        }
      ],
      "duration": 6612
    }
  ]
}
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "episodes.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	doc, err := Load(writeSample(t))
	require.NoError(t, err)

	require.Len(t, doc.Episodes, 1)
	ep := doc.Episodes[0]
	assert.Equal(t, "meeting-07_2008-01-24", ep.ID)
	require.Len(t, ep.Attachments, 2)
	assert.Equal(t, "Agenda.pdf", ep.Attachments[0].Filename)
	assert.Nil(t, ep.Attachments[0].Text)
	require.NotNil(t, ep.Attachments[1].Text)
	assert.Equal(t, "old text", *ep.Attachments[1].Text)

	assert.Equal(t, []string{"id", "meetingNumber", "title", "description", "attachments", "duration"}, ep.Fields.Keys())
}

func TestRoundTripPreservesDocument(t *testing.T) {
	path := writeSample(t)
	doc, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, Save(path, doc))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleDocument, string(got))
}

func TestSetTextKeepsKeyOrder(t *testing.T) {
	path := writeSample(t)
	doc, err := Load(path)
	require.NoError(t, err)

	ep := doc.Episode("meeting-07_2008-01-24")
	require.NotNil(t, ep)
	ep.Attachment("Agenda.pdf").SetText("Agenda text")
	ep.Attachment("Minutes.docx").SetText("New minutes")
	require.NoError(t, Save(path, doc))

	reloaded, err := Load(path)
	require.NoError(t, err)
	agenda := reloaded.Episodes[0].Attachments[0]
	minutes := reloaded.Episodes[0].Attachments[1]

	assert.Equal(t, []string{"filename", "type", "label", "title", "text"}, agenda.Fields.Keys())
	assert.Equal(t, "Agenda text", *agenda.Text)
	assert.Equal(t, []string{"filename", "text", "type"}, minutes.Fields.Keys())
	assert.Equal(t, "New minutes", *minutes.Text)

	var desc string
	_, err = reloaded.Episodes[0].Fields.Get("description", &desc)
	require.NoError(t, err)
	assert.Equal(t, "Budget & café <review>", desc)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"episodes": [`), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"metadata": {}}`), 0o644))
	_, err = Load(empty)
	assert.ErrorIs(t, err, ErrNoEpisodes)
}

func TestObjectDuplicateKeyKeepsFirstPosition(t *testing.T) {
	var o Object
	require.NoError(t, json.Unmarshal([]byte(`{"a":1,"b":2,"a":3}`), &o))
	assert.Equal(t, []string{"a", "b"}, o.Keys())

	raw, ok := o.Raw("a")
	require.True(t, ok)
	assert.Equal(t, "3", string(raw))
}

func TestObjectSetAndDelete(t *testing.T) {
	var o Object
	require.NoError(t, o.Set("x", "<b>"))
	require.NoError(t, o.Set("y", 2))
	require.NoError(t, o.Set("x", "again"))
	o.Delete("y")

	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":"again"}`, string(data))
}

func TestNewEpisodeMarshal(t *testing.T) {
	ep := &Episode{ID: "meeting-01_2007-06-22"}
	require.NoError(t, ep.Fields.Set("title", "Clear Fund Board Meeting"))
	ep.Attachments = []*Attachment{{Filename: "Agenda.pdf"}}

	doc := &Document{Episodes: []*Episode{ep}}
	data, err := Encode(doc)
	require.NoError(t, err)

	assert.JSONEq(t, `{"episodes":[{"title":"Clear Fund Board Meeting","id":"meeting-01_2007-06-22","attachments":[{"filename":"Agenda.pdf"}]}]}`, string(data))
}

func TestRoundTripKeepsNullAndNumericFields(t *testing.T) {
	const input = `{"episodes":[
		{"id":null,"attachments":null,"title":"a"},
		{"id":7,"attachments":[{"filename":null,"type":"agenda"},{"filename":"Agenda.pdf","text":"café"}]}
	]}`
	path := filepath.Join(t.TempDir(), "episodes.json")
	require.NoError(t, os.WriteFile(path, []byte(input), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	require.Len(t, doc.Episodes, 2)
	assert.Equal(t, "", doc.Episodes[0].ID)
	assert.Nil(t, doc.Episodes[0].Attachments)
	assert.Equal(t, "7", doc.Episodes[1].ID)
	assert.Equal(t, "", doc.Episodes[1].Attachments[0].Filename)

	data, err := Encode(doc)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(data))
	assert.Contains(t, string(data), `"café"`, "unchanged text keeps its raw form")

	doc.Episodes[1].Attachments[1].SetText("new")
	data, err = Encode(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id": 7`)
	assert.Contains(t, string(data), `"filename": null`)
	assert.Contains(t, string(data), `"text": "new"`)
}

func TestLoadRejectsObjectID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episodes.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"episodes":[{"id":{"n":1}}]}`), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
