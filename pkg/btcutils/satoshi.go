package btcutils

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/core/constants"
	"github.com/shopspring/decimal"
)

// CoinsToBaseUnits converts a decimal coin amount (e.g. "1.5" or "1e-8") to integer
// base units without going through floating point. The fractional part is right-padded to
// exactly 8 digits and concatenated with the integer part.
func CoinsToBaseUnits(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, errors.Wrap(errs.InvalidArgument, "empty amount")
	}

	if strings.ContainsAny(amount, "eE") {
		// full nodes serialize tiny amounts in exponent form, e.g. 1e-8
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return 0, errors.Wrapf(errs.InvalidArgument, "invalid amount %q", amount)
		}
		amount = d.String()
	}

	whole, fraction, _ := strings.Cut(amount, ".")
	if len(fraction) > constants.BaseUnitDecimals {
		return 0, errors.Wrapf(errs.InvalidArgument, "amount %q has more than %d fractional digits", amount, constants.BaseUnitDecimals)
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || !isDigits(fraction) {
		return 0, errors.Wrapf(errs.InvalidArgument, "invalid amount %q", amount)
	}

	fraction += strings.Repeat("0", constants.BaseUnitDecimals-len(fraction))
	units, err := strconv.ParseInt(whole+fraction, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errs.InvalidArgument, "amount %q out of range", amount)
	}
	return units, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
