package domain

// ResultSet はスロット番号で参照される生成画像の並びです。
// 生成中は末尾に追加され、編集では該当スロットだけが置き換わります。
type ResultSet []Image

// Len はスロット数を返します。
func (rs ResultSet) Len() int {
	return len(rs)
}

// At は指定スロットの画像を返します。範囲外なら false です。
func (rs ResultSet) At(index int) (Image, bool) {
	if index < 0 || index >= len(rs) {
		return Image{}, false
	}
	return rs[index], true
}

// Clone は各画像のバイト列まで複製したスナップショットを返します。
// 受け取り側が書き換えても元の ResultSet には影響しません。
func (rs ResultSet) Clone() ResultSet {
	out := make(ResultSet, len(rs))
	for i, img := range rs {
		out[i] = img.Clone()
	}
	return out
}

// DataURLs は表示層向けに各スロットを data URL に変換します。
func (rs ResultSet) DataURLs() []string {
	urls := make([]string, len(rs))
	for i, img := range rs {
		urls[i] = img.DataURL()
	}
	return urls
}

// EditResult はバッチ編集の1件分の結果です。
type EditResult struct {
	Index int
	Image Image
	Err   error
}
