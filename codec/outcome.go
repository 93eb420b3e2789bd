package codec

// outcome is the wire shape of a dispatch result: (bool success, string message).
var outcome = MustTuple("bool", "string")

// EncodeOutcome encodes a success flag and a short message.
func EncodeOutcome(success bool, message string) []byte {
	data, err := outcome.Encode(success, message)
	if err != nil {
		// both values always match the tuple
		panic(err)
	}
	return data
}

// DecodeOutcome decodes a payload produced by EncodeOutcome.
func DecodeOutcome(data []byte) (bool, string, error) {
	values, err := outcome.Decode(data)
	if err != nil {
		return false, "", err
	}
	ok, err := Arg[bool](values, 0)
	if err != nil {
		return false, "", err
	}
	msg, err := Arg[string](values, 1)
	if err != nil {
		return false, "", err
	}
	return ok, msg, nil
}
