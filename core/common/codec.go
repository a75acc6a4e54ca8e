package common

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

/*ToMsgpack - msgpack encoding, struct fields are keyed by their json tags */
func ToMsgpack(entity interface{}) (*bytes.Buffer, error) {
	buffer := bytes.NewBuffer(make([]byte, 0, 256))
	encoder := msgpack.NewEncoder(buffer)
	encoder.SetCustomStructTag("json")
	encoder.SetSortMapKeys(true)
	if err := encoder.Encode(entity); err != nil {
		return nil, err
	}
	return buffer, nil
}

/*FromMsgpack - read data into an entity */
func FromMsgpack(data interface{}, entity interface{}) error {
	var r io.Reader
	switch msgdata := data.(type) {
	case []byte:
		r = bytes.NewBuffer(msgdata)
	case string:
		r = bytes.NewBufferString(msgdata)
	case io.Reader:
		r = msgdata
	default:
		return NewError("unknown_data_type", fmt.Sprintf("unknown data type for reading entity from msgpack: %T, %v\n", data, data))
	}
	decoder := msgpack.NewDecoder(r)
	decoder.SetCustomStructTag("json")
	return decoder.Decode(entity)
}
