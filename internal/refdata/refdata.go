// Package refdata provides the geographic reference source for the contact
// selectors: provinces and their kabupaten/kota (regencies).
package refdata

// Province is one first-level administrative region.
type Province struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// Regency is one kabupaten/kota within a province.
type Regency struct {
	Code         int    `json:"code"`
	ProvinceCode int    `json:"provinceCode"`
	Name         string `json:"name"`
}

// Source lists provinces and the regencies within one province.
type Source interface {
	ListProvinces() []Province
	ListRegenciesFor(provinceCode int) []Regency
}

// StaticSource serves the built-in BPS administrative tables.
type StaticSource struct{}

// NewStaticSource returns the built-in reference source.
func NewStaticSource() *StaticSource {
	return &StaticSource{}
}

// ListProvinces implements Source.
func (s *StaticSource) ListProvinces() []Province {
	out := make([]Province, len(provinces))
	copy(out, provinces)
	return out
}

// ListRegenciesFor implements Source.
func (s *StaticSource) ListRegenciesFor(provinceCode int) []Regency {
	var out []Regency
	for _, r := range regencies {
		if r.ProvinceCode == provinceCode {
			out = append(out, r)
		}
	}
	return out
}

// provinces uses BPS province codes.
var provinces = []Province{
	{Code: 11, Name: "Aceh"},
	{Code: 12, Name: "Sumatera Utara"},
	{Code: 13, Name: "Sumatera Barat"},
	{Code: 14, Name: "Riau"},
	{Code: 15, Name: "Jambi"},
	{Code: 16, Name: "Sumatera Selatan"},
	{Code: 17, Name: "Bengkulu"},
	{Code: 18, Name: "Lampung"},
	{Code: 31, Name: "DKI Jakarta"},
	{Code: 32, Name: "Jawa Barat"},
	{Code: 33, Name: "Jawa Tengah"},
	{Code: 34, Name: "DI Yogyakarta"},
	{Code: 35, Name: "Jawa Timur"},
	{Code: 36, Name: "Banten"},
	{Code: 51, Name: "Bali"},
	{Code: 52, Name: "Nusa Tenggara Barat"},
	{Code: 53, Name: "Nusa Tenggara Timur"},
	{Code: 61, Name: "Kalimantan Barat"},
	{Code: 62, Name: "Kalimantan Tengah"},
	{Code: 63, Name: "Kalimantan Selatan"},
	{Code: 64, Name: "Kalimantan Timur"},
	{Code: 71, Name: "Sulawesi Utara"},
	{Code: 73, Name: "Sulawesi Selatan"},
	{Code: 81, Name: "Maluku"},
	{Code: 94, Name: "Papua"},
}

// regencies carries the two-digit within-province BPS codes.
var regencies = []Regency{
	{Code: 1, ProvinceCode: 11, Name: "Aceh Selatan"},
	{Code: 2, ProvinceCode: 11, Name: "Aceh Tenggara"},
	{Code: 3, ProvinceCode: 11, Name: "Aceh Timur"},
	{Code: 4, ProvinceCode: 11, Name: "Aceh Tengah"},
	{Code: 5, ProvinceCode: 11, Name: "Aceh Barat"},
	{Code: 6, ProvinceCode: 11, Name: "Aceh Besar"},
	{Code: 7, ProvinceCode: 11, Name: "Pidie"},
	{Code: 1, ProvinceCode: 12, Name: "Nias"},
	{Code: 2, ProvinceCode: 12, Name: "Mandailing Natal"},
	{Code: 7, ProvinceCode: 12, Name: "Deli Serdang"},
	{Code: 1, ProvinceCode: 32, Name: "Bogor"},
	{Code: 2, ProvinceCode: 32, Name: "Sukabumi"},
	{Code: 3, ProvinceCode: 32, Name: "Cianjur"},
	{Code: 4, ProvinceCode: 32, Name: "Bandung"},
	{Code: 1, ProvinceCode: 35, Name: "Pacitan"},
	{Code: 2, ProvinceCode: 35, Name: "Ponorogo"},
	{Code: 9, ProvinceCode: 35, Name: "Jember"},
	{Code: 1, ProvinceCode: 51, Name: "Jembrana"},
	{Code: 2, ProvinceCode: 51, Name: "Tabanan"},
	{Code: 3, ProvinceCode: 51, Name: "Badung"},
}
