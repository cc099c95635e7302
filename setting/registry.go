package setting

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/droplab/errs"
	"gopkg.in/yaml.v3"
)

// GetLabSettingByYAML
// 會讀取 YAML 設定、補預設值並執行基本檢查後回傳。
// 採嚴格解碼：多寫/拼錯欄位就報錯。
func GetLabSettingByYAML(data []byte) (*LabSetting, error) {
	ls := &LabSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(ls); err != nil && !errors.Is(err, io.EOF) {
		return nil, errs.WrapCode(err, errs.InvalidSetting, "failed to unmarshall yaml")
	}
	if err := ls.Init(); err != nil {
		return nil, errs.Wrap(err, "lab setting initialized err")
	}
	return ls, nil
}

// GetLabSettingByJSON
// 會讀取 Json 設定、補預設值並執行基本檢查後回傳
func GetLabSettingByJSON(data []byte) (*LabSetting, error) {
	ls := &LabSetting{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(ls); err != nil {
		return nil, errs.WrapCode(err, errs.InvalidSetting, "can not unmarshall json byte")
	}
	if err := ls.Init(); err != nil {
		return nil, errs.Wrap(err, "lab setting initialized err")
	}
	return ls, nil
}

// Load 依副檔名（.yaml/.yml/.json）從 fsys 讀取設定。
// 以 fs.FS 注入來源：本機用 os.DirFS，也可以用 go:embed。
func Load(fsys fs.FS, name string) (*LabSetting, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errs.WrapCode(err, errs.InvalidSetting, "read setting file "+name)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return GetLabSettingByYAML(data)
	case ".json":
		return GetLabSettingByJSON(data)
	default:
		return nil, errs.Input(errs.InvalidSetting, "unsupported setting file: "+name)
	}
}
