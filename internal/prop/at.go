package prop

import (
	"github.com/stagehand-dev/stagehand/internal/address"
	"github.com/stagehand-dev/stagehand/internal/faults"
)

// At resolves the sub-config at a property path. The empty path resolves to
// the config itself. Paths descend through Compound fields only; addressing
// inside leaf configs or enum payloads is an INVALID_ARGUMENT.
func At(c Config, path address.PropPath) (Config, error) {
	cur := c
	for i, seg := range path {
		compound, isCompound := cur.(*Compound)
		if !isCompound {
			return nil, faults.Newf(faults.CodeInvalidArgument,
				"path %s descends into non-compound at segment %d", path.Encode(), i)
		}
		f := compound.field(seg)
		if f == nil {
			return nil, faults.Newf(faults.CodeInvalidArgument,
				"path %s names unknown field %q", path.Encode(), seg)
		}
		cur = f.Config
	}
	return cur, nil
}
