package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"

	"github.com/appengine-ltd/craftworks/internal/crafting"
)

// encMode uses core deterministic encoding, so equal state always produces
// identical bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("archive: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("archive: CBOR decoder initialization failed: " + err.Error())
	}
}

func Encode(state crafting.State) ([]byte, error) {
	data, err := encMode.Marshal(FromState(state))
	if err != nil {
		return nil, fmt.Errorf("encoding archive: %w", err)
	}
	return data, nil
}

func Decode(data []byte) (crafting.State, error) {
	var snap Snapshot
	if err := decMode.Unmarshal(data, &snap); err != nil {
		return crafting.State{}, fmt.Errorf("decoding archive: %w", err)
	}
	return snap.State()
}

// WriteFile encodes state and replaces path through a temp file in the same
// directory.
func WriteFile(path string, state crafting.State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "archive-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	cleanup = false
	return nil
}

func ReadFile(path string) (crafting.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return crafting.State{}, fmt.Errorf("reading %s: %w", path, err)
	}
	state, err := Decode(data)
	if err != nil {
		return crafting.State{}, fmt.Errorf("%s: %w", path, err)
	}
	return state, nil
}
