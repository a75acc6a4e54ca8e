package miningsc

import (
	"encoding/json"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"

	"pouw.net/chaincore/config"
	"pouw.net/core/common"
	"pouw.net/pkg/currency"
)

func parseTokens(s string) (currency.Coin, error) {
	c, err := currency.ParseToken(s)
	if err != nil {
		return 0, common.InvalidRequest("invalid token amount " + s + ": " + err.Error())
	}
	return c, nil
}

// applyTokenomicUpdate overlays the fields present in input on base. Input
// is a JSON object keyed like the configuration, e.g. {"k": "100", "re":
// "1.5"}. Fixed point values are best sent quoted so they are read exactly.
func applyTokenomicUpdate(base TokenomicParameters, input []byte) (TokenomicParameters, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(input, &raw); err != nil {
		return base, common.InvalidRequest("malformed tokenomic parameters: " + err.Error())
	}
	fields, err := cast.ToStringMapStringE(raw)
	if err != nil {
		return base, common.InvalidRequest("tokenomic parameters must be scalars: " + err.Error())
	}
	delete(fields, "version")

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       config.FixedPointHook(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &base,
	})
	if err != nil {
		return base, err
	}
	if err := decoder.Decode(fields); err != nil {
		return base, common.InvalidRequest(err.Error())
	}
	return base, nil
}
