package document

import (
	"encoding/binary"
	"math"

	"github.com/harborline/siftgate/internal/domain"
)

// recordToFields flattens a record into store hash fields. The vector is
// serialized as the little-endian float32 blob the FT index expects.
func recordToFields(rec domain.Record) map[string]string {
	return map[string]string{
		"text":     rec.Text,
		"vector":   vectorToBlob(rec.Vector),
		"metadata": rec.Metadata,
	}
}

func fieldsToRecord(id string, fields map[string]string) domain.Record {
	return domain.Record{
		ID:       id,
		Text:     fields["text"],
		Vector:   blobToVector(fields["vector"]),
		Metadata: fields["metadata"],
	}
}

func vectorToBlob(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

func blobToVector(s string) []float32 {
	b := []byte(s)
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
