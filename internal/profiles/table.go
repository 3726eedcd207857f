package profiles

import "github.com/agrichain/agrichain/internal/domain"

// catalogue holds post-harvest storage data per crop, following ICAR and FAO
// storage guidelines. Keys are normalized crop names.
var catalogue = []domain.CropProfile{
	{
		Name:          "Tomato",
		ShelfLifeDays: 7,
		IdealTemp:     13,
		IdealHumidity: 90,
		StorageTip:    "Store at 13°C. Never refrigerate below 10°C — causes chilling injury.",
		SpoilageNotes: "Highly perishable. Sell within 5-7 days. Avoid stacking.",
	},
	{
		Name:          "Spinach",
		ShelfLifeDays: 3,
		IdealTemp:     0,
		IdealHumidity: 95,
		StorageTip:    "Keep moist and cool. Store in perforated bags.",
		SpoilageNotes: "Extremely perishable. Sell within 2-3 days.",
	},
	{
		Name:          "Coriander",
		ShelfLifeDays: 3,
		IdealTemp:     0,
		IdealHumidity: 95,
		StorageTip:    "Stand stems in water like flowers. Keep cool and moist.",
		SpoilageNotes: "Very perishable. Sell same day or next day.",
	},
	{
		Name:          "Fenugreek",
		ShelfLifeDays: 3,
		IdealTemp:     0,
		IdealHumidity: 95,
		StorageTip:    "Keep moist and cool in shade. Bundle loosely.",
		SpoilageNotes: "Very perishable. Wilts quickly in heat.",
	},
	{
		Name:          "Bitter Gourd",
		ShelfLifeDays: 5,
		IdealTemp:     12,
		IdealHumidity: 85,
		StorageTip:    "Store at 12°C. Avoid chilling below 10°C.",
		SpoilageNotes: "Moderate perishability. Sell within 5 days.",
	},
	{
		Name:          "Bottle Gourd",
		ShelfLifeDays: 14,
		IdealTemp:     10,
		IdealHumidity: 85,
		StorageTip:    "Store whole in cool area. Do not cut before selling.",
		SpoilageNotes: "Good shelf life when stored whole.",
	},
	{
		Name:          "Ridge Gourd",
		ShelfLifeDays: 5,
		IdealTemp:     10,
		IdealHumidity: 85,
		StorageTip:    "Store in cool, humid conditions. Avoid bruising.",
		SpoilageNotes: "Moderate perishability. Sell within 5 days.",
	},
	{
		Name:          "Snake Gourd",
		ShelfLifeDays: 5,
		IdealTemp:     10,
		IdealHumidity: 85,
		StorageTip:    "Handle carefully — skin damages easily.",
		SpoilageNotes: "Moderate perishability.",
	},
	{
		Name:          "Eggplant",
		ShelfLifeDays: 7,
		IdealTemp:     10,
		IdealHumidity: 90,
		StorageTip:    "Store at 10-12°C. Chilling injury below 10°C causes brown spots.",
		SpoilageNotes: "Perishable. Sensitive to cold damage and bruising.",
	},
	{
		Name:          "Okra",
		ShelfLifeDays: 5,
		IdealTemp:     7,
		IdealHumidity: 90,
		StorageTip:    "Store at 7-10°C. Chilling sensitive below 7°C.",
		SpoilageNotes: "Perishable. Loses quality quickly above 10°C.",
	},
	{
		Name:          "Capsicum",
		ShelfLifeDays: 14,
		IdealTemp:     7,
		IdealHumidity: 90,
		StorageTip:    "Store at 7-10°C in humid conditions.",
		SpoilageNotes: "Moderate shelf life. Keep cool and humid.",
	},
	{
		Name:          "Chili",
		ShelfLifeDays: 14,
		IdealTemp:     8,
		IdealHumidity: 90,
		StorageTip:    "Refrigerate in perforated bags. Dry chili lasts 6+ months.",
		SpoilageNotes: "Fresh chili moderately perishable. Dry form very stable.",
	},
	{
		Name:          "Cucumber",
		ShelfLifeDays: 10,
		IdealTemp:     10,
		IdealHumidity: 90,
		StorageTip:    "Store at 10-12°C. Chilling injury below 10°C.",
		SpoilageNotes: "Moderate perishability. Keep away from ethylene-producing fruits.",
	},
	{
		Name:          "Pumpkin",
		ShelfLifeDays: 60,
		IdealTemp:     12,
		IdealHumidity: 70,
		StorageTip:    "Store in cool, dry, well-ventilated area. Cured skin lasts months.",
		SpoilageNotes: "Good shelf life when skin is intact and cured.",
	},
	{
		Name:          "Ash Gourd",
		ShelfLifeDays: 60,
		IdealTemp:     15,
		IdealHumidity: 70,
		StorageTip:    "Store whole in cool dry place. Waxy skin protects well.",
		SpoilageNotes: "Excellent shelf life when stored whole.",
	},
	{
		Name:          "Drumstick",
		ShelfLifeDays: 5,
		IdealTemp:     10,
		IdealHumidity: 85,
		StorageTip:    "Store in cool place. Bundle and keep moist.",
		SpoilageNotes: "Perishable. Sell within 3-5 days.",
	},
	{
		Name:          "Cluster Beans",
		ShelfLifeDays: 5,
		IdealTemp:     5,
		IdealHumidity: 90,
		StorageTip:    "Refrigerate in perforated bags. Keep moist.",
		SpoilageNotes: "Perishable. Sell within 5 days.",
	},
	{
		Name:          "French Beans",
		ShelfLifeDays: 7,
		IdealTemp:     5,
		IdealHumidity: 90,
		StorageTip:    "Store at 5-7°C in high humidity.",
		SpoilageNotes: "Moderately perishable.",
	},
	{
		Name:          "Peas",
		ShelfLifeDays: 7,
		IdealTemp:     0,
		IdealHumidity: 95,
		StorageTip:    "Keep cool and moist. Sugar converts to starch quickly at warm temps.",
		SpoilageNotes: "Perishable fresh. Dried peas last 12+ months.",
	},
	{
		Name:          "Cabbage",
		ShelfLifeDays: 30,
		IdealTemp:     0,
		IdealHumidity: 95,
		StorageTip:    "Store at near 0°C with high humidity. Remove outer leaves.",
		SpoilageNotes: "Good shelf life when cool. Avoid ethylene exposure.",
	},
	{
		Name:          "Cauliflower",
		ShelfLifeDays: 14,
		IdealTemp:     0,
		IdealHumidity: 95,
		StorageTip:    "Store at near 0°C. Keep curd covered with leaves.",
		SpoilageNotes: "Moderate shelf life. Yellows quickly at warm temperatures.",
	},
	{
		Name:          "Broccoli",
		ShelfLifeDays: 7,
		IdealTemp:     0,
		IdealHumidity: 95,
		StorageTip:    "Keep very cold and moist. Yellows rapidly.",
		SpoilageNotes: "Perishable. Sell within 5-7 days.",
	},
	{
		Name:          "Carrot",
		ShelfLifeDays: 30,
		IdealTemp:     0,
		IdealHumidity: 95,
		StorageTip:    "Remove tops, store in cool humid conditions.",
		SpoilageNotes: "Good shelf life. Keep tops removed to prevent moisture loss.",
	},
	{
		Name:          "Radish",
		ShelfLifeDays: 14,
		IdealTemp:     0,
		IdealHumidity: 95,
		StorageTip:    "Remove tops. Store in cool, moist conditions.",
		SpoilageNotes: "Moderate shelf life. Goes pithy if stored too long.",
	},
	{
		Name:          "Beetroot",
		ShelfLifeDays: 30,
		IdealTemp:     0,
		IdealHumidity: 95,
		StorageTip:    "Remove tops, store in cool humid conditions.",
		SpoilageNotes: "Good shelf life when tops removed.",
	},
	{
		Name:          "Turnip",
		ShelfLifeDays: 30,
		IdealTemp:     0,
		IdealHumidity: 95,
		StorageTip:    "Remove tops, store cool and moist.",
		SpoilageNotes: "Good shelf life when stored properly.",
	},
	{
		Name:          "Potato",
		ShelfLifeDays: 90,
		IdealTemp:     8,
		IdealHumidity: 90,
		StorageTip:    "Store in dark, cool, humid area. Light causes greening (toxic).",
		SpoilageNotes: "Very good shelf life. Avoid light and excess moisture.",
	},
	{
		Name:          "Sweet Potato",
		ShelfLifeDays: 60,
		IdealTemp:     13,
		IdealHumidity: 85,
		StorageTip:    "Cure at 30°C for 1 week before storage. Store at 13-15°C.",
		SpoilageNotes: "Good shelf life when cured. Chilling sensitive.",
	},
	{
		Name:          "Onion",
		ShelfLifeDays: 90,
		IdealTemp:     0,
		IdealHumidity: 65,
		StorageTip:    "Store in DRY, cool, well-ventilated area. Low humidity essential.",
		SpoilageNotes: "Excellent shelf life when dry. Moisture causes rotting.",
	},
	{
		Name:          "Garlic",
		ShelfLifeDays: 180,
		IdealTemp:     0,
		IdealHumidity: 65,
		StorageTip:    "Store in dry, cool, ventilated area. Braid for airflow.",
		SpoilageNotes: "Very good shelf life when dry and ventilated.",
	},
	{
		Name:          "Ginger",
		ShelfLifeDays: 30,
		IdealTemp:     13,
		IdealHumidity: 90,
		StorageTip:    "Store at 13°C with high humidity. Dry ginger lasts 6+ months.",
		SpoilageNotes: "Fresh ginger moderately perishable. Dry very stable.",
	},
	{
		Name:          "Turmeric",
		ShelfLifeDays: 365,
		IdealTemp:     15,
		IdealHumidity: 65,
		StorageTip:    "Boil, dry and store in cool dry place. Powder lasts 1+ year.",
		SpoilageNotes: "Excellent shelf life when dried properly.",
	},
	{
		Name:          "Banana",
		ShelfLifeDays: 5,
		IdealTemp:     13,
		IdealHumidity: 85,
		StorageTip:    "Keep at room temperature. Never refrigerate unripe.",
		SpoilageNotes: "Perishable. Sell within 3-5 days of ripening.",
	},
	{
		Name:          "Mango",
		ShelfLifeDays: 7,
		IdealTemp:     13,
		IdealHumidity: 85,
		StorageTip:    "Store at 13°C. Handle gently — bruising accelerates spoilage.",
		SpoilageNotes: "Perishable. Handle with care. Sell within 5-7 days.",
	},
	{
		Name:          "Papaya",
		ShelfLifeDays: 5,
		IdealTemp:     10,
		IdealHumidity: 85,
		StorageTip:    "Store ripe papaya at 10°C. Use within 5 days.",
		SpoilageNotes: "Perishable. Sell quickly once ripe.",
	},
	{
		Name:          "Guava",
		ShelfLifeDays: 5,
		IdealTemp:     8,
		IdealHumidity: 85,
		StorageTip:    "Store at 8-10°C. Ripens quickly at room temperature.",
		SpoilageNotes: "Perishable. Sell within 3-5 days of ripening.",
	},
	{
		Name:          "Watermelon",
		ShelfLifeDays: 14,
		IdealTemp:     10,
		IdealHumidity: 85,
		StorageTip:    "Store whole at room temperature. Refrigerate after cutting.",
		SpoilageNotes: "Good shelf life whole. Sell cut melon same day.",
	},
	{
		Name:          "Muskmelon",
		ShelfLifeDays: 7,
		IdealTemp:     5,
		IdealHumidity: 85,
		StorageTip:    "Store at 5-7°C when ripe. Keep away from other produce.",
		SpoilageNotes: "Moderate perishability. Strong ethylene producer.",
	},
	{
		Name:          "Grapes",
		ShelfLifeDays: 14,
		IdealTemp:     0,
		IdealHumidity: 90,
		StorageTip:    "Refrigerate immediately. Keep dry — moisture causes mold.",
		SpoilageNotes: "Moderately perishable. Keep cool and dry.",
	},
	{
		Name:          "Pomegranate",
		ShelfLifeDays: 60,
		IdealTemp:     5,
		IdealHumidity: 80,
		StorageTip:    "Store at 5°C. Thick skin protects well.",
		SpoilageNotes: "Excellent shelf life among fruits.",
	},
	{
		Name:          "Orange",
		ShelfLifeDays: 21,
		IdealTemp:     5,
		IdealHumidity: 85,
		StorageTip:    "Refrigerate for longer shelf life. Do not wash until use.",
		SpoilageNotes: "Good shelf life. Avoid moisture on skin.",
	},
	{
		Name:          "Lemon",
		ShelfLifeDays: 30,
		IdealTemp:     10,
		IdealHumidity: 85,
		StorageTip:    "Store at 10-14°C. Lasts longer than most citrus.",
		SpoilageNotes: "Good shelf life. Keep cool and dry.",
	},
	{
		Name:          "Lime",
		ShelfLifeDays: 21,
		IdealTemp:     10,
		IdealHumidity: 85,
		StorageTip:    "Store at 10°C. Avoid bruising and moisture.",
		SpoilageNotes: "Good shelf life when stored cool.",
	},
	{
		Name:          "Coconut",
		ShelfLifeDays: 60,
		IdealTemp:     0,
		IdealHumidity: 80,
		StorageTip:    "Store in cool dry place. Husk protects from damage.",
		SpoilageNotes: "Very good shelf life. Husk intact = longer life.",
	},
	{
		Name:          "Pineapple",
		ShelfLifeDays: 7,
		IdealTemp:     10,
		IdealHumidity: 85,
		StorageTip:    "Store at 10-13°C. Do not refrigerate below 10°C.",
		SpoilageNotes: "Perishable. Chilling sensitive. Sell within 1 week.",
	},
	{
		Name:          "Sapota",
		ShelfLifeDays: 5,
		IdealTemp:     15,
		IdealHumidity: 85,
		StorageTip:    "Store at 15°C. Ripens quickly at room temperature.",
		SpoilageNotes: "Very perishable once ripe. Sell within 3-5 days.",
	},
	{
		Name:          "Custard Apple",
		ShelfLifeDays: 3,
		IdealTemp:     15,
		IdealHumidity: 85,
		StorageTip:    "Handle very gently. Ripens and deteriorates very fast.",
		SpoilageNotes: "Extremely perishable. Sell within 1-3 days.",
	},
	{
		Name:          "Jackfruit",
		ShelfLifeDays: 7,
		IdealTemp:     13,
		IdealHumidity: 85,
		StorageTip:    "Store whole at 13°C. Cut jackfruit must be refrigerated.",
		SpoilageNotes: "Moderately perishable. Sell within 1 week.",
	},
	{
		Name:          "Strawberries",
		ShelfLifeDays: 3,
		IdealTemp:     0,
		IdealHumidity: 90,
		StorageTip:    "Refrigerate immediately. Do not wash until ready to use.",
		SpoilageNotes: "Extremely perishable. Sell within 1-2 days.",
	},
	{
		Name:          "Amla",
		ShelfLifeDays: 14,
		IdealTemp:     5,
		IdealHumidity: 85,
		StorageTip:    "Store at 5°C. High vitamin C content slows spoilage.",
		SpoilageNotes: "Moderate shelf life. Keep cool.",
	},
	{
		Name:          "Tamarind",
		ShelfLifeDays: 180,
		IdealTemp:     20,
		IdealHumidity: 50,
		StorageTip:    "Store in cool, dry place. Shell protects pulp.",
		SpoilageNotes: "Excellent shelf life. Very stable when dry.",
	},
	{
		Name:          "Rice",
		ShelfLifeDays: 365,
		IdealTemp:     15,
		IdealHumidity: 40,
		StorageTip:    "Store in airtight containers. Moisture below 14% essential.",
		SpoilageNotes: "Excellent shelf life when dry. Moisture = mold risk.",
	},
	{
		Name:          "Wheat",
		ShelfLifeDays: 365,
		IdealTemp:     15,
		IdealHumidity: 40,
		StorageTip:    "Store in clean, dry, ventilated warehouse. Monitor for insects.",
		SpoilageNotes: "Excellent shelf life. Keep moisture below 12-14%.",
	},
	{
		Name:          "Corn",
		ShelfLifeDays: 3,
		IdealTemp:     0,
		IdealHumidity: 95,
		StorageTip:    "Fresh corn: refrigerate immediately. Dried corn: airtight dry storage.",
		SpoilageNotes: "Fresh very perishable. Dried corn lasts 1+ year.",
	},
	{
		Name:          "Maize",
		ShelfLifeDays: 365,
		IdealTemp:     15,
		IdealHumidity: 40,
		StorageTip:    "Dry to 12% moisture before storage. Use airtight storage.",
		SpoilageNotes: "Excellent shelf life when properly dried.",
	},
	{
		Name:          "Sorghum",
		ShelfLifeDays: 365,
		IdealTemp:     15,
		IdealHumidity: 40,
		StorageTip:    "Store dry in airtight bags. Monitor for weevils.",
		SpoilageNotes: "Excellent shelf life when dry.",
	},
	{
		Name:          "Bajra",
		ShelfLifeDays: 180,
		IdealTemp:     15,
		IdealHumidity: 40,
		StorageTip:    "Store in airtight containers. More prone to rancidity than wheat.",
		SpoilageNotes: "Good shelf life. High fat content — monitor for rancidity.",
	},
	{
		Name:          "Barley",
		ShelfLifeDays: 365,
		IdealTemp:     15,
		IdealHumidity: 40,
		StorageTip:    "Store in cool, dry, ventilated warehouse.",
		SpoilageNotes: "Excellent shelf life when dry.",
	},
	{
		Name:          "Chickpea",
		ShelfLifeDays: 365,
		IdealTemp:     15,
		IdealHumidity: 40,
		StorageTip:    "Store in airtight bags in cool dry place. Monitor for weevils.",
		SpoilageNotes: "Excellent shelf life when dry.",
	},
	{
		Name:          "Lentil",
		ShelfLifeDays: 365,
		IdealTemp:     15,
		IdealHumidity: 40,
		StorageTip:    "Store in airtight containers. Keep cool and dry.",
		SpoilageNotes: "Excellent shelf life when dry.",
	},
	{
		Name:          "Pigeon Pea",
		ShelfLifeDays: 365,
		IdealTemp:     15,
		IdealHumidity: 40,
		StorageTip:    "Store in airtight bags. Monitor for bruchid beetles.",
		SpoilageNotes: "Good shelf life. Monitor for insect damage.",
	},
	{
		Name:          "Black Gram",
		ShelfLifeDays: 365,
		IdealTemp:     15,
		IdealHumidity: 40,
		StorageTip:    "Store dry in airtight containers.",
		SpoilageNotes: "Excellent shelf life when dry.",
	},
	{
		Name:          "Green Gram",
		ShelfLifeDays: 365,
		IdealTemp:     15,
		IdealHumidity: 40,
		StorageTip:    "Store in airtight containers in cool dry place.",
		SpoilageNotes: "Excellent shelf life when dry.",
	},
	{
		Name:          "Soybean",
		ShelfLifeDays: 365,
		IdealTemp:     15,
		IdealHumidity: 40,
		StorageTip:    "Dry to 11% moisture. Store in airtight cool storage.",
		SpoilageNotes: "Good shelf life. High oil content — monitor rancidity.",
	},
	{
		Name:          "Cotton",
		ShelfLifeDays: 365,
		IdealTemp:     20,
		IdealHumidity: 50,
		StorageTip:    "Store in dry bales. Protect from moisture and fire.",
		SpoilageNotes: "Very stable when dry. Moisture causes quality loss.",
	},
	{
		Name:          "Sunflowers",
		ShelfLifeDays: 180,
		IdealTemp:     15,
		IdealHumidity: 40,
		StorageTip:    "Dry seeds to 9-10% moisture. Store in airtight cool storage.",
		SpoilageNotes: "Good shelf life. High oil = rancidity risk if warm.",
	},
	{
		Name:          "Groundnut",
		ShelfLifeDays: 180,
		IdealTemp:     10,
		IdealHumidity: 65,
		StorageTip:    "Cure and dry thoroughly. Aflatoxin risk in humid storage.",
		SpoilageNotes: "Aflatoxin risk if stored damp. Keep very dry.",
	},
	{
		Name:          "Sesame",
		ShelfLifeDays: 365,
		IdealTemp:     15,
		IdealHumidity: 40,
		StorageTip:    "Store in airtight container. Very prone to rancidity.",
		SpoilageNotes: "Good shelf life but monitor for rancidity.",
	},
	{
		Name:          "Mustard",
		ShelfLifeDays: 365,
		IdealTemp:     15,
		IdealHumidity: 40,
		StorageTip:    "Store in airtight cool dry place.",
		SpoilageNotes: "Excellent shelf life when dry.",
	},
	{
		Name:          "Jute",
		ShelfLifeDays: 180,
		IdealTemp:     20,
		IdealHumidity: 50,
		StorageTip:    "Store in dry warehouse. Avoid moisture.",
		SpoilageNotes: "Good shelf life when kept dry.",
	},
	{
		Name:          "Sugarcane",
		ShelfLifeDays: 2,
		IdealTemp:     5,
		IdealHumidity: 85,
		StorageTip:    "Process or sell within 24-48 hours of cutting.",
		SpoilageNotes: "Extremely perishable. Must sell same day of cutting.",
	},
	{
		Name:          "Coffee",
		ShelfLifeDays: 180,
		IdealTemp:     20,
		IdealHumidity: 50,
		StorageTip:    "Store green beans in airtight container away from light.",
		SpoilageNotes: "Good shelf life as green beans.",
	},
	{
		Name:          "Cinnamon",
		ShelfLifeDays: 730,
		IdealTemp:     20,
		IdealHumidity: 40,
		StorageTip:    "Store in airtight container away from light and heat.",
		SpoilageNotes: "Very long shelf life as dried spice.",
	},
	{
		Name:          "Pepper",
		ShelfLifeDays: 365,
		IdealTemp:     15,
		IdealHumidity: 65,
		StorageTip:    "Store whole peppercorns in airtight container.",
		SpoilageNotes: "Excellent shelf life when dried properly.",
	},
	{
		Name:          "Cardamom",
		ShelfLifeDays: 365,
		IdealTemp:     10,
		IdealHumidity: 60,
		StorageTip:    "Store in airtight container in cool dark place.",
		SpoilageNotes: "Good shelf life when stored airtight.",
	},
	{
		Name:          "Cumin",
		ShelfLifeDays: 365,
		IdealTemp:     15,
		IdealHumidity: 40,
		StorageTip:    "Store in airtight container away from light.",
		SpoilageNotes: "Excellent shelf life when dry.",
	},
	{
		Name:          "Coriander Seeds",
		ShelfLifeDays: 365,
		IdealTemp:     15,
		IdealHumidity: 40,
		StorageTip:    "Store in airtight container. Whole seeds last longer than ground.",
		SpoilageNotes: "Excellent shelf life as whole seeds.",
	},
	{
		Name:          "Default",
		ShelfLifeDays: 7,
		IdealTemp:     15,
		IdealHumidity: 65,
		StorageTip:    "Store in cool, dry, ventilated area. Avoid direct sunlight.",
		SpoilageNotes: "Follow standard post-harvest handling practices.",
	},
}

// equivalence maps market crop names onto the closed vocabulary understood
// by the suitability classifier. Hand-authored by soil and climate similarity.
var equivalence = map[string]domain.EquivalenceClass{
	"Onion":           domain.EquivalenceCarrots,
	"Potato":          domain.EquivalenceCarrots,
	"Sweet Potato":    domain.EquivalenceCarrots,
	"Carrot":          domain.EquivalenceCarrots,
	"Radish":          domain.EquivalenceCarrots,
	"Beetroot":        domain.EquivalenceCarrots,
	"Turnip":          domain.EquivalenceCarrots,
	"Garlic":          domain.EquivalenceCarrots,
	"Ginger":          domain.EquivalenceCorn,
	"Spinach":         domain.EquivalenceEggplant,
	"Coriander":       domain.EquivalenceEggplant,
	"Fenugreek":       domain.EquivalenceEggplant,
	"Cabbage":         domain.EquivalenceEggplant,
	"Cauliflower":     domain.EquivalenceEggplant,
	"Broccoli":        domain.EquivalenceEggplant,
	"Okra":            domain.EquivalenceEggplant,
	"Capsicum":        domain.EquivalenceChili,
	"Bitter Gourd":    domain.EquivalenceEggplant,
	"Bottle Gourd":    domain.EquivalenceEggplant,
	"Ridge Gourd":     domain.EquivalenceEggplant,
	"Snake Gourd":     domain.EquivalenceEggplant,
	"Pumpkin":         domain.EquivalenceCorn,
	"Ash Gourd":       domain.EquivalenceCorn,
	"Cucumber":        domain.EquivalenceEggplant,
	"Drumstick":       domain.EquivalenceSunflowers,
	"Cluster Beans":   domain.EquivalenceCorn,
	"French Beans":    domain.EquivalenceCorn,
	"Peas":            domain.EquivalenceCorn,
	"Turmeric":        domain.EquivalenceCorn,
	"Banana":          domain.EquivalenceCorn,
	"Mango":           domain.EquivalenceSunflowers,
	"Papaya":          domain.EquivalenceCorn,
	"Guava":           domain.EquivalenceSunflowers,
	"Watermelon":      domain.EquivalenceCorn,
	"Muskmelon":       domain.EquivalenceCorn,
	"Grapes":          domain.EquivalenceStrawberries,
	"Pomegranate":     domain.EquivalenceSunflowers,
	"Orange":          domain.EquivalenceSunflowers,
	"Lemon":           domain.EquivalenceSunflowers,
	"Lime":            domain.EquivalenceSunflowers,
	"Coconut":         domain.EquivalenceCorn,
	"Pineapple":       domain.EquivalenceCorn,
	"Sapota":          domain.EquivalenceSunflowers,
	"Custard Apple":   domain.EquivalenceCorn,
	"Jackfruit":       domain.EquivalenceCorn,
	"Amla":            domain.EquivalenceSunflowers,
	"Tamarind":        domain.EquivalenceSunflowers,
	"Sorghum":         domain.EquivalenceWheat,
	"Bajra":           domain.EquivalenceWheat,
	"Barley":          domain.EquivalenceWheat,
	"Maize":           domain.EquivalenceCorn,
	"Lentil":          domain.EquivalenceWheat,
	"Chickpea":        domain.EquivalenceWheat,
	"Pigeon Pea":      domain.EquivalenceCorn,
	"Black Gram":      domain.EquivalenceCorn,
	"Green Gram":      domain.EquivalenceCorn,
	"Soybean":         domain.EquivalenceCorn,
	"Groundnut":       domain.EquivalenceSunflowers,
	"Sesame":          domain.EquivalenceSunflowers,
	"Mustard":         domain.EquivalenceWheat,
	"Cotton":          domain.EquivalenceSunflowers,
	"Jute":            domain.EquivalenceCorn,
	"Sugarcane":       domain.EquivalenceCorn,
	"Pepper":          domain.EquivalenceCorn,
	"Cardamom":        domain.EquivalenceCorn,
	"Cumin":           domain.EquivalenceWheat,
	"Coriander Seeds": domain.EquivalenceWheat,
	"Coffee":          domain.EquivalenceCorn,
	"Carrots":         domain.EquivalenceCarrots,
	"Chili":           domain.EquivalenceChili,
	"Cinnamon":        domain.EquivalenceCinnamon,
	"Corn":            domain.EquivalenceCorn,
	"Eggplant":        domain.EquivalenceEggplant,
	"Rice":            domain.EquivalenceRice,
	"Strawberries":    domain.EquivalenceStrawberries,
	"Sunflowers":      domain.EquivalenceSunflowers,
	"Tomato":          domain.EquivalenceTomato,
	"Wheat":           domain.EquivalenceWheat,
}
