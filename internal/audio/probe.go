package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrUnknownFormat is returned when the file is not a recognized audio container.
var ErrUnknownFormat = errors.New("unrecognized audio format")

// Duration probes the length of an audio file in seconds by reading container
// headers. MP4/M4A (the store's native blob format) and WAV are supported.
// The result is never negative.
func Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	header := make([]byte, 12)
	if _, err := io.ReadFull(f, header); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	if string(header[0:4]) == "RIFF" && string(header[8:12]) == "WAVE" {
		return wavDuration(f)
	}
	if string(header[4:8]) == "ftyp" {
		return mp4Duration(f)
	}
	return 0, ErrUnknownFormat
}

// wavDuration walks RIFF chunks for the fmt byte rate and the data size.
func wavDuration(f *os.File) (float64, error) {
	if _, err := f.Seek(12, io.SeekStart); err != nil {
		return 0, err
	}

	var byteRate uint32
	var dataSize uint32
	chunkHeader := make([]byte, 8)
	for {
		if _, err := io.ReadFull(f, chunkHeader); err != nil {
			break
		}
		chunkID := string(chunkHeader[0:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])

		switch chunkID {
		case "fmt ":
			body := make([]byte, chunkSize)
			if _, err := io.ReadFull(f, body); err != nil {
				return 0, fmt.Errorf("%w: truncated fmt chunk", ErrUnknownFormat)
			}
			if len(body) >= 12 {
				byteRate = binary.LittleEndian.Uint32(body[8:12])
			}
		case "data":
			dataSize = chunkSize
			if _, err := f.Seek(int64(chunkSize), io.SeekCurrent); err != nil {
				return 0, err
			}
		default:
			if _, err := f.Seek(int64(chunkSize), io.SeekCurrent); err != nil {
				return 0, err
			}
		}
		// Chunks are word-aligned.
		if chunkSize%2 == 1 {
			if _, err := f.Seek(1, io.SeekCurrent); err != nil {
				break
			}
		}
		if byteRate != 0 && dataSize != 0 {
			break
		}
	}

	if byteRate == 0 || dataSize == 0 {
		return 0, fmt.Errorf("%w: missing fmt or data chunk", ErrUnknownFormat)
	}
	return float64(dataSize) / float64(byteRate), nil
}

// mp4Duration walks top-level boxes to moov/mvhd and reads the movie
// timescale and duration.
func mp4Duration(f *os.File) (float64, error) {
	moovStart, moovEnd, err := findBox(f, 0, -1, "moov")
	if err != nil {
		return 0, err
	}
	mvhdStart, mvhdEnd, err := findBox(f, moovStart, moovEnd, "mvhd")
	if err != nil {
		return 0, err
	}

	body := make([]byte, mvhdEnd-mvhdStart)
	if _, err := f.Seek(mvhdStart, io.SeekStart); err != nil {
		return 0, err
	}
	if _, err := io.ReadFull(f, body); err != nil {
		return 0, fmt.Errorf("%w: truncated mvhd box", ErrUnknownFormat)
	}

	if len(body) < 1 {
		return 0, fmt.Errorf("%w: empty mvhd box", ErrUnknownFormat)
	}
	version := body[0]
	switch version {
	case 0:
		// version+flags, ctime(4), mtime(4), timescale(4), duration(4)
		if len(body) < 20 {
			return 0, fmt.Errorf("%w: short mvhd v0 box", ErrUnknownFormat)
		}
		timescale := binary.BigEndian.Uint32(body[12:16])
		duration := binary.BigEndian.Uint32(body[16:20])
		if timescale == 0 {
			return 0, fmt.Errorf("%w: zero mvhd timescale", ErrUnknownFormat)
		}
		return float64(duration) / float64(timescale), nil
	case 1:
		// version+flags, ctime(8), mtime(8), timescale(4), duration(8)
		if len(body) < 32 {
			return 0, fmt.Errorf("%w: short mvhd v1 box", ErrUnknownFormat)
		}
		timescale := binary.BigEndian.Uint32(body[20:24])
		duration := binary.BigEndian.Uint64(body[24:32])
		if timescale == 0 {
			return 0, fmt.Errorf("%w: zero mvhd timescale", ErrUnknownFormat)
		}
		return float64(duration) / float64(timescale), nil
	}
	return 0, fmt.Errorf("%w: mvhd version %d", ErrUnknownFormat, version)
}

// findBox scans [start, end) for the named box and returns the byte range of
// its payload. An end of -1 means "to EOF".
func findBox(f *os.File, start, end int64, name string) (int64, int64, error) {
	pos := start
	header := make([]byte, 8)
	for end < 0 || pos+8 <= end {
		if _, err := f.Seek(pos, io.SeekStart); err != nil {
			return 0, 0, err
		}
		if _, err := io.ReadFull(f, header); err != nil {
			return 0, 0, fmt.Errorf("%w: box %q not found", ErrUnknownFormat, name)
		}
		size := int64(binary.BigEndian.Uint32(header[0:4]))
		boxType := string(header[4:8])
		headerLen := int64(8)
		if size == 1 {
			large := make([]byte, 8)
			if _, err := io.ReadFull(f, large); err != nil {
				return 0, 0, fmt.Errorf("%w: truncated largesize", ErrUnknownFormat)
			}
			size = int64(binary.BigEndian.Uint64(large))
			headerLen = 16
		}
		if size < headerLen {
			return 0, 0, fmt.Errorf("%w: invalid box size", ErrUnknownFormat)
		}
		if boxType == name {
			return pos + headerLen, pos + size, nil
		}
		pos += size
	}
	return 0, 0, fmt.Errorf("%w: box %q not found", ErrUnknownFormat, name)
}
