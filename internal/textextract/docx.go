package textextract

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// extractDocx reads word/document.xml from the archive and returns its
// paragraphs, one per line, as a single page.
func extractDocx(path string) (Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return Document{}, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return Document{}, errors.New("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return Document{}, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	paras, err := docxParagraphs(rc)
	if err != nil {
		return Document{}, err
	}
	content := strings.TrimSpace(strings.Join(paras, "\n"))
	return Document{Content: content, Pages: []Page{{PageNumber: 1, Content: content}}}, nil
}

func docxParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)
	var (
		paras   []string
		current strings.Builder
		inText  bool
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				current.Reset()
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br", "cr":
				current.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paras = append(paras, strings.TrimRight(current.String(), " \t"))
				current.Reset()
			}
		}
	}
	return paras, nil
}
