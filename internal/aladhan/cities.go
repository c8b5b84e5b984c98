package aladhan

import (
	"sort"
	"strings"
)

// City is a catalog entry with coordinates used for coordinate lookups.
type City struct {
	Name      string  `json:"name"`
	Province  string  `json:"province"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

var cities = []City{
	{Name: "Banda Aceh", Province: "Aceh", Latitude: 5.5483, Longitude: 95.3238},
	{Name: "Lhokseumawe", Province: "Aceh", Latitude: 5.1801, Longitude: 97.1507},
	{Name: "Medan", Province: "Sumatera Utara", Latitude: 3.5952, Longitude: 98.6722},
	{Name: "Binjai", Province: "Sumatera Utara", Latitude: 3.6001, Longitude: 98.4854},
	{Name: "Pematangsiantar", Province: "Sumatera Utara", Latitude: 2.9498, Longitude: 99.0486},
	{Name: "Sibolga", Province: "Sumatera Utara", Latitude: 1.7427, Longitude: 98.7792},
	{Name: "Tanjungbalai", Province: "Sumatera Utara", Latitude: 2.9664, Longitude: 99.7946},
	{Name: "Tebing Tinggi", Province: "Sumatera Utara", Latitude: 3.3254, Longitude: 99.1626},
	{Name: "Simalungun", Province: "Sumatera Utara", Latitude: 2.9397, Longitude: 99.0547},
	{Name: "Padang", Province: "Sumatera Barat", Latitude: -0.9493, Longitude: 100.3543},
	{Name: "Bukittinggi", Province: "Sumatera Barat", Latitude: -0.3056, Longitude: 100.3692},
	{Name: "Padang Panjang", Province: "Sumatera Barat", Latitude: -0.4728, Longitude: 100.3958},
	{Name: "Padangpariaman", Province: "Sumatera Barat", Latitude: -0.6284, Longitude: 100.1223},
	{Name: "Pariaman", Province: "Sumatera Barat", Latitude: -0.6263, Longitude: 100.1179},
	{Name: "Solok", Province: "Sumatera Barat", Latitude: -0.7901, Longitude: 100.6543},
	{Name: "Pekanbaru", Province: "Riau", Latitude: 0.5070, Longitude: 101.4478},
	{Name: "Dumai", Province: "Riau", Latitude: 1.6667, Longitude: 101.4500},
	{Name: "Batam", Province: "Kepulauan Riau", Latitude: 1.1301, Longitude: 104.0529},
	{Name: "Tanjung Pinang", Province: "Kepulauan Riau", Latitude: 0.9186, Longitude: 104.4463},
	{Name: "Jambi", Province: "Jambi", Latitude: -1.6101, Longitude: 103.6131},
	{Name: "Sungai Penuh", Province: "Jambi", Latitude: -2.0600, Longitude: 101.3928},
	{Name: "Palembang", Province: "Sumatera Selatan", Latitude: -2.9761, Longitude: 104.7754},
	{Name: "Lubuklinggau", Province: "Sumatera Selatan", Latitude: -3.2968, Longitude: 102.8617},
	{Name: "Prabumulih", Province: "Sumatera Selatan", Latitude: -3.4333, Longitude: 104.2333},
	{Name: "Baturaja", Province: "Sumatera Selatan", Latitude: -4.1290, Longitude: 104.1667},
	{Name: "Lahat", Province: "Sumatera Selatan", Latitude: -3.7839, Longitude: 103.5300},
	{Name: "Panjang", Province: "Sumatera Selatan", Latitude: -5.4700, Longitude: 105.3200},
	{Name: "Sakatiga", Province: "Sumatera Selatan", Latitude: -3.0333, Longitude: 104.7333},
	{Name: "Bengkulu", Province: "Bengkulu", Latitude: -3.8004, Longitude: 102.2655},
	{Name: "Bandar Lampung", Province: "Lampung", Latitude: -5.3971, Longitude: 105.2668},
	{Name: "Metro", Province: "Lampung", Latitude: -5.1138, Longitude: 105.3067},
	{Name: "Pangkal Pinang", Province: "Bangka Belitung", Latitude: -2.1275, Longitude: 106.1139},
	{Name: "Tanjungpandan", Province: "Bangka Belitung", Latitude: -2.7500, Longitude: 107.6500},
	{Name: "Serang", Province: "Banten", Latitude: -6.1104, Longitude: 106.1640},
	{Name: "Cilegon", Province: "Banten", Latitude: -6.0025, Longitude: 106.0161},
	{Name: "Tangerang", Province: "Banten", Latitude: -6.1783, Longitude: 106.6319},
	{Name: "Tangerang Selatan", Province: "Banten", Latitude: -6.2943, Longitude: 106.7143},
	{Name: "Rangkasbitung", Province: "Banten", Latitude: -6.3540, Longitude: 106.2510},
	{Name: "Pandeglang", Province: "Banten", Latitude: -6.3129, Longitude: 106.1050},
	{Name: "Jakarta", Province: "DKI Jakarta", Latitude: -6.2088, Longitude: 106.8456},
	{Name: "Bandung", Province: "Jawa Barat", Latitude: -6.9175, Longitude: 107.6191},
	{Name: "Bekasi", Province: "Jawa Barat", Latitude: -6.2383, Longitude: 107.0000},
	{Name: "Bogor", Province: "Jawa Barat", Latitude: -6.5971, Longitude: 106.8060},
	{Name: "Cianjur", Province: "Jawa Barat", Latitude: -6.7351, Longitude: 107.1395},
	{Name: "Cikarang", Province: "Jawa Barat", Latitude: -6.2833, Longitude: 107.1500},
	{Name: "Cimahi", Province: "Jawa Barat", Latitude: -6.8722, Longitude: 107.5408},
	{Name: "Cirebon", Province: "Jawa Barat", Latitude: -6.7063, Longitude: 108.5570},
	{Name: "Depok", Province: "Jawa Barat", Latitude: -6.4025, Longitude: 106.7942},
	{Name: "Garut", Province: "Jawa Barat", Latitude: -7.2167, Longitude: 107.9064},
	{Name: "Karawang", Province: "Jawa Barat", Latitude: -6.3210, Longitude: 107.3381},
	{Name: "Purwakarta", Province: "Jawa Barat", Latitude: -6.5561, Longitude: 107.4371},
	{Name: "Subang", Province: "Jawa Barat", Latitude: -6.5714, Longitude: 107.7529},
	{Name: "Sukabumi", Province: "Jawa Barat", Latitude: -6.9210, Longitude: 106.9300},
	{Name: "Tasikmalaya", Province: "Jawa Barat", Latitude: -7.3274, Longitude: 108.2207},
	{Name: "Boyolali", Province: "Jawa Tengah", Latitude: -7.5337, Longitude: 110.5962},
	{Name: "Cilacap", Province: "Jawa Tengah", Latitude: -7.7325, Longitude: 109.0157},
	{Name: "Demak", Province: "Jawa Tengah", Latitude: -6.8936, Longitude: 110.6385},
	{Name: "Kebumen", Province: "Jawa Tengah", Latitude: -7.6680, Longitude: 109.6508},
	{Name: "Kendal", Province: "Jawa Tengah", Latitude: -6.9184, Longitude: 110.2024},
	{Name: "Klaten", Province: "Jawa Tengah", Latitude: -7.7059, Longitude: 110.6058},
	{Name: "Kudus", Province: "Jawa Tengah", Latitude: -6.8048, Longitude: 110.8405},
	{Name: "Magelang", Province: "Jawa Tengah", Latitude: -7.4797, Longitude: 110.2177},
	{Name: "Pati", Province: "Jawa Tengah", Latitude: -6.7463, Longitude: 111.0401},
	{Name: "Pekalongan", Province: "Jawa Tengah", Latitude: -6.8885, Longitude: 109.6753},
	{Name: "Purwokerto", Province: "Jawa Tengah", Latitude: -7.4243, Longitude: 109.2355},
	{Name: "Purworejo", Province: "Jawa Tengah", Latitude: -7.7208, Longitude: 110.0005},
	{Name: "Salatiga", Province: "Jawa Tengah", Latitude: -7.3319, Longitude: 110.5062},
	{Name: "Semarang", Province: "Jawa Tengah", Latitude: -6.9932, Longitude: 110.4203},
	{Name: "Surakarta", Province: "Jawa Tengah", Latitude: -7.5755, Longitude: 110.8243},
	{Name: "Tegal", Province: "Jawa Tengah", Latitude: -6.8797, Longitude: 109.1256},
	{Name: "Wonosari", Province: "Jawa Tengah", Latitude: -7.9656, Longitude: 110.5987},
	{Name: "Wonosobo", Province: "Jawa Tengah", Latitude: -7.3584, Longitude: 109.9021},
	{Name: "Yogyakarta", Province: "DI Yogyakarta", Latitude: -7.7971, Longitude: 110.3688},
	{Name: "Bangkalan", Province: "Jawa Timur", Latitude: -7.0458, Longitude: 112.7351},
	{Name: "Banyuwangi", Province: "Jawa Timur", Latitude: -8.2192, Longitude: 114.3691},
	{Name: "Batu", Province: "Jawa Timur", Latitude: -7.8672, Longitude: 112.5239},
	{Name: "Blitar", Province: "Jawa Timur", Latitude: -8.0957, Longitude: 112.1609},
	{Name: "Gresik", Province: "Jawa Timur", Latitude: -7.1625, Longitude: 112.6514},
	{Name: "Jember", Province: "Jawa Timur", Latitude: -8.1724, Longitude: 113.6884},
	{Name: "Jombang", Province: "Jawa Timur", Latitude: -7.5457, Longitude: 112.2318},
	{Name: "Kediri", Province: "Jawa Timur", Latitude: -7.8165, Longitude: 112.0115},
	{Name: "Lamongan", Province: "Jawa Timur", Latitude: -7.1193, Longitude: 112.4213},
	{Name: "Madiun", Province: "Jawa Timur", Latitude: -7.6298, Longitude: 111.5238},
	{Name: "Malang", Province: "Jawa Timur", Latitude: -7.9797, Longitude: 112.6304},
	{Name: "Mojokerto", Province: "Jawa Timur", Latitude: -7.4703, Longitude: 112.4344},
	{Name: "Nganjuk", Province: "Jawa Timur", Latitude: -7.6050, Longitude: 111.9051},
	{Name: "Pamekasan", Province: "Jawa Timur", Latitude: -7.1571, Longitude: 113.4741},
	{Name: "Pasuruan", Province: "Jawa Timur", Latitude: -7.6453, Longitude: 112.9075},
	{Name: "Ponorogo", Province: "Jawa Timur", Latitude: -7.8669, Longitude: 111.4649},
	{Name: "Probolinggo", Province: "Jawa Timur", Latitude: -7.7543, Longitude: 113.2159},
	{Name: "Sidoarjo", Province: "Jawa Timur", Latitude: -7.4478, Longitude: 112.7183},
	{Name: "Situbondo", Province: "Jawa Timur", Latitude: -7.7068, Longitude: 114.0046},
	{Name: "Surabaya", Province: "Jawa Timur", Latitude: -7.2575, Longitude: 112.7521},
	{Name: "Tuban", Province: "Jawa Timur", Latitude: -6.8990, Longitude: 112.0508},
	{Name: "Tulungagung", Province: "Jawa Timur", Latitude: -8.0656, Longitude: 111.9047},
	{Name: "Denpasar", Province: "Bali", Latitude: -8.6705, Longitude: 115.2126},
	{Name: "Singaraja", Province: "Bali", Latitude: -8.1120, Longitude: 115.0883},
	{Name: "Tabanan", Province: "Bali", Latitude: -8.5412, Longitude: 115.1253},
	{Name: "Ubud", Province: "Bali", Latitude: -8.5069, Longitude: 115.2625},
	{Name: "Mataram", Province: "NTB", Latitude: -8.5833, Longitude: 116.1167},
	{Name: "Kupang", Province: "NTT", Latitude: -10.1718, Longitude: 123.6074},
	{Name: "Maumere", Province: "NTT", Latitude: -8.6200, Longitude: 122.2100},
	{Name: "Ruteng", Province: "NTT", Latitude: -8.6100, Longitude: 120.4700},
	{Name: "Waingapu", Province: "NTT", Latitude: -9.6564, Longitude: 120.2640},
	{Name: "Ketapang", Province: "Kalimantan Barat", Latitude: -1.8500, Longitude: 109.9833},
	{Name: "Pontianak", Province: "Kalimantan Barat", Latitude: -0.0263, Longitude: 109.3425},
	{Name: "Sambas", Province: "Kalimantan Barat", Latitude: 1.3500, Longitude: 109.3000},
	{Name: "Singkawang", Province: "Kalimantan Barat", Latitude: 0.9053, Longitude: 108.9619},
	{Name: "Palangkaraya", Province: "Kalimantan Tengah", Latitude: -2.2136, Longitude: 113.9108},
	{Name: "Banjarbaru", Province: "Kalimantan Selatan", Latitude: -3.4417, Longitude: 114.8333},
	{Name: "Banjarmasin", Province: "Kalimantan Selatan", Latitude: -3.3186, Longitude: 114.5944},
	{Name: "Balikpapan", Province: "Kalimantan Timur", Latitude: -1.2379, Longitude: 116.8529},
	{Name: "Bontang", Province: "Kalimantan Timur", Latitude: 0.1333, Longitude: 117.5000},
	{Name: "Samarinda", Province: "Kalimantan Timur", Latitude: -0.5022, Longitude: 117.1536},
	{Name: "Nunukan", Province: "Kalimantan Utara", Latitude: 4.1383, Longitude: 117.6656},
	{Name: "Tanjung Selor", Province: "Kalimantan Utara", Latitude: 2.8477, Longitude: 117.3640},
	{Name: "Tarakan", Province: "Kalimantan Utara", Latitude: 3.3000, Longitude: 117.6333},
	{Name: "Bitung", Province: "Sulawesi Utara", Latitude: 1.4404, Longitude: 125.1217},
	{Name: "Kotamobagu", Province: "Sulawesi Utara", Latitude: 0.7240, Longitude: 124.3215},
	{Name: "Manado", Province: "Sulawesi Utara", Latitude: 1.4748, Longitude: 124.8421},
	{Name: "Tomohon", Province: "Sulawesi Utara", Latitude: 1.3193, Longitude: 124.8316},
	{Name: "Gorontalo", Province: "Gorontalo", Latitude: 0.5435, Longitude: 123.0593},
	{Name: "Luwuk", Province: "Sulawesi Tengah", Latitude: -0.9500, Longitude: 122.7833},
	{Name: "Palu", Province: "Sulawesi Tengah", Latitude: -0.8917, Longitude: 119.8707},
	{Name: "Makassar", Province: "Sulawesi Selatan", Latitude: -5.1477, Longitude: 119.4327},
	{Name: "Palopo", Province: "Sulawesi Selatan", Latitude: -2.9933, Longitude: 120.1978},
	{Name: "Parepare", Province: "Sulawesi Selatan", Latitude: -4.0135, Longitude: 119.6255},
	{Name: "Mamuju", Province: "Sulawesi Barat", Latitude: -2.6809, Longitude: 118.8875},
	{Name: "Baubau", Province: "Sulawesi Tenggara", Latitude: -5.4710, Longitude: 122.6040},
	{Name: "Kendari", Province: "Sulawesi Tenggara", Latitude: -3.9985, Longitude: 122.5127},
	{Name: "Kolaka", Province: "Sulawesi Tenggara", Latitude: -4.0752, Longitude: 121.5873},
	{Name: "Ambon", Province: "Maluku", Latitude: -3.6954, Longitude: 128.1814},
	{Name: "Tual", Province: "Maluku", Latitude: -5.6333, Longitude: 132.7500},
	{Name: "Sofifi", Province: "Maluku Utara", Latitude: 0.7333, Longitude: 127.5667},
	{Name: "Ternate", Province: "Maluku Utara", Latitude: 0.7833, Longitude: 127.3667},
	{Name: "Tidore", Province: "Maluku Utara", Latitude: 0.6833, Longitude: 127.4000},
	{Name: "Biak", Province: "Papua / Papua Barat", Latitude: -1.1800, Longitude: 136.0800},
	{Name: "Fakfak", Province: "Papua / Papua Barat", Latitude: -2.9200, Longitude: 132.2900},
	{Name: "Jayapura", Province: "Papua / Papua Barat", Latitude: -2.5337, Longitude: 140.7181},
	{Name: "Manokwari", Province: "Papua / Papua Barat", Latitude: -0.8614, Longitude: 134.0820},
	{Name: "Merauke", Province: "Papua / Papua Barat", Latitude: -8.4932, Longitude: 140.4018},
	{Name: "Sorong", Province: "Papua / Papua Barat", Latitude: -0.8762, Longitude: 131.2560},
	{Name: "Tanahmerah", Province: "Papua / Papua Barat", Latitude: -6.1000, Longitude: 140.3000},
	{Name: "Timika", Province: "Papua / Papua Barat", Latitude: -4.5500, Longitude: 136.8833},
	{Name: "Wamena", Province: "Papua / Papua Barat", Latitude: -4.0955, Longitude: 138.9522},
	{Name: "Kota Bharu", Province: "Kota Bharu (Kalimantan)", Latitude: -3.2943, Longitude: 116.1700},
}

var cityIndex = func() map[string]City {
	m := make(map[string]City, len(cities))
	for _, c := range cities {
		m[strings.ToLower(c.Name)] = c
	}
	return m
}()

// LookupCity finds a catalog city by case-insensitive name.
func LookupCity(name string) (City, bool) {
	c, ok := cityIndex[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Cities returns the catalog sorted by name.
func Cities() []City {
	out := make([]City, len(cities))
	copy(out, cities)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
