package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

// buildWAV assembles a minimal RIFF/WAVE file with the given byte rate and
// data payload size.
func buildWAV(byteRate, dataSize uint32) []byte {
	var buf bytes.Buffer
	fmtBody := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtBody[0:2], 1)  // PCM
	binary.LittleEndian.PutUint16(fmtBody[2:4], 1)  // mono
	binary.LittleEndian.PutUint32(fmtBody[4:8], byteRate/2)
	binary.LittleEndian.PutUint32(fmtBody[8:12], byteRate)
	binary.LittleEndian.PutUint16(fmtBody[12:14], 2)
	binary.LittleEndian.PutUint16(fmtBody[14:16], 16)

	riffSize := uint32(4 + 8 + len(fmtBody) + 8 + int(dataSize))
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, riffSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(len(fmtBody)))
	buf.Write(fmtBody)
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}

// buildM4A assembles a minimal ftyp+moov/mvhd container with the given movie
// timescale and duration.
func buildM4A(timescale uint32, duration uint32) []byte {
	var buf bytes.Buffer

	buf.Write([]byte{0, 0, 0, 16})
	buf.WriteString("ftyp")
	buf.WriteString("M4A ")
	buf.Write([]byte{0, 0, 0, 0})

	mvhdBody := make([]byte, 100)
	binary.BigEndian.PutUint32(mvhdBody[12:16], timescale)
	binary.BigEndian.PutUint32(mvhdBody[16:20], duration)

	moovSize := uint32(8 + 8 + len(mvhdBody))
	binary.Write(&buf, binary.BigEndian, moovSize)
	buf.WriteString("moov")
	binary.Write(&buf, binary.BigEndian, uint32(8+len(mvhdBody)))
	buf.WriteString("mvhd")
	buf.Write(mvhdBody)
	return buf.Bytes()
}

func TestDurationWAV(t *testing.T) {
	path := writeFixture(t, "clip.wav", buildWAV(16000, 32000))

	got, err := Duration(path)
	if err != nil {
		t.Fatalf("Duration() error = %v", err)
	}
	if got != 2.0 {
		t.Errorf("Duration() = %v, want 2.0", got)
	}
}

func TestDurationM4A(t *testing.T) {
	path := writeFixture(t, "clip.m4a", buildM4A(1000, 2500))

	got, err := Duration(path)
	if err != nil {
		t.Fatalf("Duration() error = %v", err)
	}
	if math.Abs(got-2.5) > 1e-9 {
		t.Errorf("Duration() = %v, want 2.5", got)
	}
}

func TestDurationUnknownFormat(t *testing.T) {
	path := writeFixture(t, "notes.txt", []byte("this is not audio but long enough to read a header"))

	_, err := Duration(path)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Duration() error = %v, want ErrUnknownFormat", err)
	}
}

func TestDurationTruncatedFile(t *testing.T) {
	path := writeFixture(t, "tiny.bin", []byte("RIFF"))

	_, err := Duration(path)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Duration() error = %v, want ErrUnknownFormat", err)
	}
}

func TestDurationMissingFile(t *testing.T) {
	_, err := Duration(filepath.Join(t.TempDir(), "absent.m4a"))
	if err == nil {
		t.Error("Duration() on missing file should error")
	}
	if errors.Is(err, ErrUnknownFormat) {
		t.Error("missing file should surface the filesystem error, not ErrUnknownFormat")
	}
}

func TestDurationM4AZeroTimescale(t *testing.T) {
	path := writeFixture(t, "bad.m4a", buildM4A(0, 2500))

	_, err := Duration(path)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Duration() error = %v, want ErrUnknownFormat", err)
	}
}
