package fertilizer

// records holds the recommendation for every label the nutrient model can emit
// other than Not_Corn. Keys match the model metadata class names.
var records = map[string]Record{
	"Healthy": {
		Deficiency:    "No Deficiency",
		DescriptionEN: "Your corn plant is healthy with optimal nutrient levels. Maintain current management practices.",
		DescriptionSI: "ඔබගේ පැල සෞඛ්‍ය සම්පන්නයි හා පෝෂක මට්ටම් සාධාරණය. වර්තමාන කළමනාකරණ පියවර පවත්වා ගන්න.",
		Options: []Option{
			{
				Name:          "Balanced NPK Fertilizer",
				Concentration: "e.g., 10-10-10 or similar",
				Application:   "Regular maintenance application",
				DosageEN:      "Follow soil test recommendations (typically 30-40 kg/hectare)",
				DosageSI:      "මට්ටමේ පරීක්ෂණ අනුව 30-40 කිලෝග්‍රෑම්/හෙක්ටයාර් යොදන්න",
				Notes:         "For preventive maintenance to sustain health. Apply based on soil testing.",
			},
		},
		Timing:      "Regular maintenance schedule based on crop stage and soil testing",
		Precautions: "Continue monitoring plant health. Re-test soil periodically.",
	},
	"KAB": {
		Deficiency:    "Potassium Deficiency",
		DescriptionEN: "Your corn plant shows potassium deficiency. Potassium improves disease resistance and grain quality.",
		DescriptionSI: "ඔබගේ පැල පොටෑසියම් ඌනතාවයේ ලක්ෂණ පෙන්වයි. පොටෑසියම් රෝග ප්‍රතිරෝධය හා ධාන්‍ය ගුණාත්මකත්වය වැඩි කරයි.",
		Options: []Option{
			{
				Name:          "Muriate of Potash (MOP)",
				Concentration: "60% K2O",
				Application:   "Dry application - soil incorporation",
				DosageEN:      "Apply 40-60 kg/hectare K2O equivalent",
				DosageSI:      "40-60 කිලෝග්‍රෑම්/හෙක්ටයාර් (K2O සමාන ප්‍රමාණයෙන්) යොදන්න",
				Notes:         "Most economical potassium source. Contains chloride which some crops are sensitive to.",
			},
			{
				Name:          "Bandi Pohora (Local Potash)",
				Concentration: "Variable K2O",
				Application:   "Soil incorporation",
				DosageEN:      "Apply 1-2 tons/hectare",
				DosageSI:      "1-2 ටොන්/හෙක්ටයාර් යොදන්න",
				Notes:         "Traditional source. Improves soil structure and microbial activity.",
			},
			{
				Name:          "Sulphate of Potash (SOP)",
				Concentration: "50% K2O + 18% S",
				Application:   "Dry application - soil incorporation",
				DosageEN:      "Apply 50-75 kg/hectare K2O equivalent",
				DosageSI:      "50-75 කිලෝග්‍රෑම්/හෙක්ටයාර් (K2O සමාන ප්‍රමාණයෙන්) යොදන්න",
				Notes:         "Chloride-free. Better for sensitive crops. Also provides sulfur.",
			},
			{
				Name:          "Potassium Nitrate",
				Concentration: "13.5% N + 46% K2O",
				Application:   "Dry application or fertigation",
				DosageEN:      "Apply 30-50 kg/hectare K2O equivalent",
				DosageSI:      "30-50 කිලෝග්‍රෑම්/හෙක්ටයාර් (K2O සමාන ප්‍රමාණයෙන්) යොදන්න",
				Notes:         "Provides both nitrogen and potassium. Excellent for foliar application.",
			},
			{
				Name:          "Liquid Nano-Potassium",
				Concentration: "Nano-particle form",
				Application:   "Foliar spray or fertigation",
				DosageEN:      "Follow product instructions (typically 2-4 liters/hectare)",
				DosageSI:      "නිෂ්පාදන ලේබලයේ උපදෙස් අනුගමනය කරන්න (සාමාන්‍යයෙන් 2-4 ලීටර්/හෙක්ටයාර්)",
				Notes:         "Rapid absorption. Best for quick deficiency correction during growing season.",
			},
		},
		Timing:      "Apply during early-mid growth stages for best results",
		Precautions: "Excess potassium can interfere with magnesium absorption. Maintain proper balance.",
	},
	"NAB": {
		Deficiency:    "Nitrogen Deficiency",
		DescriptionEN: "Your corn plant is showing signs of nitrogen deficiency. This nutrient is critical for leaf growth and overall vigor.",
		DescriptionSI: "ඔබගේ පැල නයිට්‍රජන් ඌනතාවයේ ලක්ෂණ පෙන්වයි. මෙම පෝෂකය කොළ වර්ධනය සහ සාමාන්‍ය ශක්තිය සඳහා ඉතා වැදගත්ය.",
		Options: []Option{
			{
				Name:          "Urea",
				Concentration: "46% N",
				Application:   "Dry application",
				DosageEN:      "Apply 50-80 kg/hectare depending on soil status",
				Notes:         "Best applied during active growth phase",
			},
			{
				Name:          "Foliar Spray - Urea Solution",
				Concentration: "2% to 4% urea solution",
				Application:   "Foliar spray",
				DosageEN:      "8–16 kg of urea in 400 liters of water per hectare",
				Notes:         "Quick absorption through leaves. Spray during morning or evening.",
			},
			{
				Name:          "Calcium Ammonium Nitrate (CAN)",
				Concentration: "27% N",
				Application:   "Dry application",
				DosageEN:      "Apply 60-100 kg/hectare",
				DosageSI:      "60-100 කිලෝග්‍රෑම්/හෙක්ටයාර් යොදන්න",
				Notes:         "Suitable for sandy soils. Provides both nitrogen and calcium.",
			},
			{
				Name:          "Liquid Nitrogen",
				Concentration: "Variable concentration",
				Application:   "Liquid spray or fertigation",
				DosageEN:      "Follow product instructions (typically 5-10 liters/hectare)",
				DosageSI:      "නිෂ්පාදන ලේබලයේ උපදෙස් අනුගමනය කරන්න (සාමාන්‍යයෙන් 5-10 ලීටර්/හෙක්ටයාර්)",
				Notes:         "Fast-acting, can be applied with irrigation water",
			},
			{
				Name:          "Nano Nitrogen",
				Concentration: "Nano-particle form",
				Application:   "Foliar spray or soil application",
				DosageEN:      "Follow product instructions (typically 2-5 kg/hectare)",
				DosageSI:      "නිෂ්පාදන ලේබලයේ උපදෙස් අනුගමනය කරන්න (සාමාන්‍යයෙන් 2-5 කිලෝග්‍රෑම්/හෙක්ටයාර්)",
				Notes:         "Enhanced absorption due to nano-particles, reduces application rates",
			},
		},
		Timing:      "Apply immediately when deficiency is detected",
		Precautions: "Avoid excessive nitrogen application as it can promote vegetative growth at the expense of grain",
	},
	"PAB": {
		Deficiency:    "Phosphorus Deficiency",
		DescriptionEN: "Your corn plant shows phosphorus deficiency symptoms. Phosphorus is essential for root development and energy transfer.",
		DescriptionSI: "ඔබගේ පැල පොස්පරස් ඌනතාවයේ ලක්ෂණ පෙන්වයි. පොස්පරස් මූල සංවර්ධනය හා ශක්තිමත්වීම සඳහා අත්‍යවශ්‍ය වේ.",
		Options: []Option{
			{
				Name:          "Triple Super Phosphate (TSP)",
				Concentration: "46% P2O5",
				Application:   "Dry application - soil incorporation",
				DosageEN:      "Apply 40-80 kg/hectare depending on soil test",
				DosageSI:      "මට්ටමේ පරීක්ෂණ අනුව 40-80 කිලෝග්‍රෑම්/හෙක්ටයාර් යොදන්න",
				Notes:         "Most popular phosphate fertilizer. Best applied before planting.",
			},
			{
				Name:          "Mada Pohora (Mud Fertilizer)",
				Concentration: "Low P2O5 but organic rich",
				Application:   "Soil incorporation",
				DosageEN:      "Apply 2-3 tons/hectare",
				DosageSI:      "2-3 ටොන්/හෙක්ටයාර් යොදන්න",
				Notes:         "Traditional local fertilizer. Improves soil structure alongside phosphorus supply.",
			},
			{
				Name:          "Single Super Phosphate (SSP)",
				Concentration: "18% P2O5",
				Application:   "Dry application - soil incorporation",
				DosageEN:      "Apply 100-150 kg/hectare",
				DosageSI:      "100-150 කිලෝග්‍රෑම්/හෙක්ටයාර් යොදන්න",
				Notes:         "Also provides sulfur. Slower acting than TSP but effective.",
			},
			{
				Name:          "Diammonium Phosphate (DAP)",
				Concentration: "18% N + 46% P2O5",
				Application:   "Dry application - soil incorporation",
				DosageEN:      "Apply 50-100 kg/hectare",
				DosageSI:      "50-100 කිලෝග්‍රෑම්/හෙක්ටයාර් යොදන්න",
				Notes:         "Best option if both nitrogen and phosphorus are deficient. Dual benefit.",
			},
		},
		Timing:      "Apply at planting or as soon as deficiency is detected",
		Precautions: "Phosphorus moves slowly in soil, so incorporate well. Excess can interfere with zinc absorption.",
	},
	"ZNAB": {
		Deficiency:    "Zinc Deficiency",
		DescriptionEN: "Your corn plant shows zinc deficiency. Zinc is crucial for enzyme activity and protein synthesis.",
		DescriptionSI: "ඔබගේ පැල සින්ක් ඌනතාවයේ ලක්ෂණ පෙන්වයි. සින්ක් එන්සයිම ක්‍රියාකාරිත්වය හා ප්‍රෝටීන් සංශලේෂණයට අවශ්‍ය වේ.",
		Options: []Option{
			{
				Name:          "Zinc Sulphate (ZnSO4)",
				Concentration: "33% Zn",
				Application:   "Foliar spray or soil application",
				DosageEN:      "Soil: 10-15 kg/hectare | Foliar: 2-5 kg in 400 liters water/hectare",
				DosageSI:      "භූමිය: 10-15 කිලෝග්‍රෑම්/හෙක්ටයාර් | පත්‍ර: ජල ලීටර් 400 කට සින්ක් 2-5 කිලෝග්‍රෑම් යොදන්න",
				Notes:         "Most effective form of zinc. Quick absorption when sprayed on leaves.",
			},
			{
				Name:          "Chelated Zinc (Zinc EDTA)",
				Concentration: "9-14% Zn (chelated)",
				Application:   "Foliar spray preferred",
				DosageEN:      "Foliar: 1-2 kg in 400 liters water/hectare | Soil: 5-10 kg/hectare",
				DosageSI:      "පත්‍ර: ජල ලීටර් 400 කට සින්ක් 1-2 කිලෝග්‍රෑම් | භූමිය: 5-10 කිලෝග්‍රෑම්/හෙක්ටයාර්",
				Notes:         "Better availability to plants. More expensive but highly effective.",
			},
			{
				Name:          "Micro-Maize (AgStar PLC)",
				Concentration: "Micronutrient complex including Zn",
				Application:   "Foliar spray",
				DosageEN:      "Follow product label (typically 1-2 liters/hectare)",
				DosageSI:      "නිෂ්පාදන ලේබලයේ උපදෙස් අනුගමනය කරන්න (සාමාන්‍යයෙන් 1-2 ලීටර්/හෙක්ටයාර්)",
				Notes:         "Balanced micronutrient formula. Contains multiple nutrients including zinc.",
			},
			{
				Name:          "ZN Sulphate (Hayleys Agriculture)",
				Concentration: "33% Zn",
				Application:   "Foliar spray or soil application",
				DosageEN:      "Follow product instructions (typically 2-5 kg/hectare foliar)",
				DosageSI:      "නිෂ්පාදන ලේබලයේ උපදෙස් අනුගමනය කරන්න (සාමාන්‍යයෙන් පත්‍ර 2-5 කිලෝග්‍රෑම්/හෙක්ටයාර්)",
				Notes:         "Branded product from trusted supplier. Reliable quality.",
			},
			{
				Name:          "Speed / Supercell (Opex Holdings)",
				Concentration: "Micronutrient fortified",
				Application:   "Foliar spray",
				DosageEN:      "Follow product instructions (typically 1-2 liters/hectare)",
				DosageSI:      "නිෂ්පාදන ලේබලයේ උපදෙස් අනුගමනය කරන්න (සාමාන්‍යයෙන් 1-2 ලීටර්/හෙක්ටයාර්)",
				Notes:         "Premium product with enhanced formulation. Works well for zinc deficiency correction.",
			},
		},
		Timing:      "Apply at first sign of symptoms for best results. Can be applied throughout growing season.",
		Precautions: "Zinc and copper can interact. Avoid over-application as it can cause toxicity.",
	},
}
