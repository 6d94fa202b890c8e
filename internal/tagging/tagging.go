// Package tagging writes track metadata and cover art into audio files.
package tagging

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"

	"github.com/khanCurtis/rustwav/internal/domain"
)

// Supported reports whether the tagger can write the given format. WAV and
// M4A files pass through untagged.
func Supported(format string) bool {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "mp3", "flac":
		return true
	default:
		return false
	}
}

// TagFile writes metadata tags to the audio file at filePath.
func TagFile(filePath string, desc domain.TrackDescriptor, albumArtData []byte) error {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".mp3":
		return tagMP3(filePath, desc, albumArtData)
	case ".flac":
		return tagFLAC(filePath, desc, albumArtData)
	default:
		return &domain.TagError{
			Kind: domain.TagUnsupportedContainer,
			Path: filePath,
			Err:  fmt.Errorf("unsupported file format: %s", ext),
		}
	}
}

// tagMP3 writes an ID3v2.3 tag, replacing whatever the extractor left.
func tagMP3(filePath string, desc domain.TrackDescriptor, albumArtData []byte) error {
	tag, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err != nil {
		return &domain.TagError{Kind: domain.TagIOFailure, Path: filePath, Err: err}
	}
	defer tag.Close()

	tag.SetVersion(3)

	if desc.Title != "" {
		tag.SetTitle(desc.Title)
	}
	if len(desc.Artists) > 0 {
		tag.SetArtist(strings.Join(desc.Artists, ", "))
	}
	if desc.Album != "" {
		tag.SetAlbum(desc.Album)
	}
	if desc.Year > 0 {
		tag.SetYear(fmt.Sprintf("%d", desc.Year))
	}

	albumArtist := desc.AlbumArtist
	if albumArtist == "" {
		albumArtist = desc.Artist()
	}
	if albumArtist != "" {
		tag.AddTextFrame(tag.CommonID("Band/Orchestra/Accompaniment"), tag.DefaultEncoding(), albumArtist)
	}

	if desc.TrackNumber > 0 {
		trackStr := fmt.Sprintf("%d", desc.TrackNumber)
		if desc.TotalTracks > 0 {
			trackStr = fmt.Sprintf("%d/%d", desc.TrackNumber, desc.TotalTracks)
		}
		tag.AddTextFrame(tag.CommonID("Track number/Position in set"), tag.DefaultEncoding(), trackStr)
	}
	if desc.DiscNumber > 0 {
		tag.AddTextFrame(tag.CommonID("Part of a set"), tag.DefaultEncoding(), fmt.Sprintf("%d", desc.DiscNumber))
	}
	if desc.ISRC != "" {
		tag.AddTextFrame(tag.CommonID("ISRC"), tag.DefaultEncoding(), desc.ISRC)
	}

	if len(albumArtData) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    detectMIME(albumArtData),
			PictureType: id3v2.PTFrontCover,
			Description: "Front Cover",
			Picture:     albumArtData,
		})
	}

	if err := tag.Save(); err != nil {
		return &domain.TagError{Kind: domain.TagIOFailure, Path: filePath, Err: err}
	}
	return nil
}

// tagFLAC rewrites the Vorbis comment and picture blocks, keeping the
// stream's other metadata intact.
func tagFLAC(filePath string, desc domain.TrackDescriptor, albumArtData []byte) error {
	f, err := flac.ParseFile(filePath)
	if err != nil {
		return &domain.TagError{Kind: domain.TagIOFailure, Path: filePath, Err: err}
	}

	// Drop any existing comment and picture blocks; ours replace them.
	var kept []*flac.MetaDataBlock
	for _, block := range f.Meta {
		if block.Type == flac.VorbisComment || block.Type == flac.Picture {
			continue
		}
		kept = append(kept, block)
	}

	vorbis := flacvorbis.New()
	addComment := func(key, value string) {
		if value != "" {
			_ = vorbis.Add(key, value)
		}
	}

	addComment(flacvorbis.FIELD_TITLE, desc.Title)
	for _, a := range desc.Artists {
		addComment(flacvorbis.FIELD_ARTIST, a)
	}
	addComment(flacvorbis.FIELD_ALBUM, desc.Album)
	if desc.AlbumArtist != "" {
		addComment("ALBUMARTIST", desc.AlbumArtist)
	}
	if desc.TrackNumber > 0 {
		addComment(flacvorbis.FIELD_TRACKNUMBER, fmt.Sprintf("%d", desc.TrackNumber))
	}
	if desc.TotalTracks > 0 {
		addComment("TRACKTOTAL", fmt.Sprintf("%d", desc.TotalTracks))
	}
	if desc.DiscNumber > 0 {
		addComment("DISCNUMBER", fmt.Sprintf("%d", desc.DiscNumber))
	}
	if desc.Year > 0 {
		addComment(flacvorbis.FIELD_DATE, fmt.Sprintf("%d", desc.Year))
	}
	addComment(flacvorbis.FIELD_ISRC, desc.ISRC)

	vorbisBlock := vorbis.Marshal()
	kept = append(kept, &vorbisBlock)

	if len(albumArtData) > 0 {
		picture, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Front Cover", albumArtData, detectMIME(albumArtData))
		if err != nil {
			return &domain.TagError{Kind: domain.TagIOFailure, Path: filePath, Err: err}
		}
		pictureBlock := picture.Marshal()
		kept = append(kept, &pictureBlock)
	}

	f.Meta = kept

	if err := f.Save(filePath); err != nil {
		return &domain.TagError{Kind: domain.TagIOFailure, Path: filePath, Err: err}
	}
	return nil
}

// detectMIME sniffs the image type so PNG covers aren't labelled JPEG.
func detectMIME(data []byte) string {
	mime := http.DetectContentType(data)
	if idx := strings.Index(mime, ";"); idx != -1 {
		mime = strings.TrimSpace(mime[:idx])
	}
	return mime
}
