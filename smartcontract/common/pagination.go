package common

import (
	"github.com/spf13/cast"
)

const (
	DefaultQueryLimit = 20
	MaxQueryLimit     = 50
)

type Pagination struct {
	Offset       int
	Limit        int
	IsDescending bool
}

// GetOffsetLimitOrderParam reads offset, limit and sort from query
// parameters. Missing values fall back to the defaults.
func GetOffsetLimitOrderParam(params map[string]string) (Pagination, error) {
	p := Pagination{Limit: DefaultQueryLimit}
	var err error
	if v, ok := params["offset"]; ok && v != "" {
		if p.Offset, err = cast.ToIntE(v); err != nil || p.Offset < 0 {
			return Pagination{}, errInvalidParam("offset", v)
		}
	}
	if v, ok := params["limit"]; ok && v != "" {
		if p.Limit, err = cast.ToIntE(v); err != nil || p.Limit <= 0 {
			return Pagination{}, errInvalidParam("limit", v)
		}
		if p.Limit > MaxQueryLimit {
			p.Limit = MaxQueryLimit
		}
	}
	if v, ok := params["sort"]; ok && v != "" {
		switch v {
		case "desc":
			p.IsDescending = true
		case "asc":
		default:
			return Pagination{}, errInvalidParam("sort", v)
		}
	}
	return p, nil
}
