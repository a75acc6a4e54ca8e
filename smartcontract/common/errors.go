package common

import (
	"pouw.net/core/common"
)

func errInvalidParam(name, value string) error {
	return common.NewErrorf(common.ErrBadRequestCode, "invalid %s parameter: %q", name, value)
}
