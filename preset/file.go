package preset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk preset document.
//
//	version: "1"
//	presets:
//	  - name: fade-in
//	    transition: {duration: 300ms, ease: [0, 0, 0.2, 1]}
//	    states:
//	      hidden: {props: {opacity: 0}}
//	      visible: {props: {opacity: 1}}
//	      exit: {props: {opacity: 0}}
type File struct {
	Version string       `json:"version,omitempty" yaml:"version,omitempty"`
	Presets []Descriptor `json:"presets" yaml:"presets"`
}

// Decode reads a preset document and validates every descriptor. Unknown
// fields are rejected so typos fail loudly.
func Decode(r io.Reader) (File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, fmt.Errorf("%w: empty preset document", ErrInvalidDescriptor)
		}
		return File{}, fmt.Errorf("yaml decode: %w", err)
	}
	seen := make(map[string]bool, len(f.Presets))
	for i, d := range f.Presets {
		if err := d.Validate(); err != nil {
			return File{}, fmt.Errorf("preset %d: %w", i, err)
		}
		if seen[d.Name] {
			return File{}, fmt.Errorf("%w: preset %q declared twice", ErrInvalidDescriptor, d.Name)
		}
		seen[d.Name] = true
	}
	return f, nil
}

// LoadFile reads and validates the preset document at path.
func LoadFile(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return f.Presets, nil
}

// Encode writes descs as a preset document.
func Encode(w io.Writer, descs []Descriptor) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(File{Version: "1", Presets: descs}); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
