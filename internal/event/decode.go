package event

import "encoding/json"

// DecodePayload returns the payload of e as T.
// Payloads published in-process on a MemoryBus are already T (or *T); payloads
// read back from a dead-letter file are generic maps and go through a JSON
// round trip.
func DecodePayload[T any](e Event) (T, error) {
	switch v := e.Payload.(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
	}

	var result T
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return result, err
	}
	err = json.Unmarshal(data, &result)
	return result, err
}
