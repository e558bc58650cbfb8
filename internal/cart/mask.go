package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Mask 结算时勾选的行；前端可能传 [true,false] 也可能传 {"0":true,"2":true}
type Mask []bool

// MaxMaskIndex 下标形式允许的最大 key；购物车行数远小于它
const MaxMaskIndex = 1000

func (m *Mask) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*m = nil
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var arr []bool
		if err := json.Unmarshal(b, &arr); err != nil {
			return err
		}
		*m = arr
		return nil
	}
	var obj map[string]bool
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("selectedItems must be an array or an index map: %w", err)
	}
	out := Mask{}
	for k, v := range obj {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 {
			return fmt.Errorf("selectedItems key %q is not an index", k)
		}
		if i > MaxMaskIndex {
			return fmt.Errorf("selectedItems index %d exceeds %d", i, MaxMaskIndex)
		}
		for len(out) <= i {
			out = append(out, false)
		}
		out[i] = v
	}
	*m = out
	return nil
}
