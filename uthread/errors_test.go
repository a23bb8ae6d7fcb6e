// SPDX-License-Identifier: Unlicense OR MIT

package uthread

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUsageErrorf(t *testing.T) {
	err := usageErrorf("spawn: at capacity (%d threads)", MaxThreads)
	require.Error(t, err)
	require.Equal(t, "spawn: at capacity (100 threads)", err.Error())

	var target *UsageError
	require.ErrorAs(t, err, &target)
}
