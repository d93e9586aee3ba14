package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLabels(t *testing.T) {
	require.Equal(t, "社会调查", ProjectFieldSocial.Label())
	require.Equal(t, "高中", StudentLevelSeniorHigh.Label())
	require.Equal(t, "数据报告", MaterialDataReport.Label())

	require.Equal(t, "astronomy", ProjectField("astronomy").Label())
}

func TestDedupeMaterialsKeepsFirstOccurrence(t *testing.T) {
	got := DedupeMaterials([]Material{MaterialDocs, MaterialCode, MaterialDocs})
	require.Equal(t, []Material{MaterialDocs, MaterialCode}, got)
	require.Empty(t, DedupeMaterials(nil))
}

func TestMaterialLabelsPreserveOrder(t *testing.T) {
	req := ExampleEvaluationRequest()
	require.Equal(t, []string{"代码", "文档", "演示视频"}, req.MaterialLabels())
}
