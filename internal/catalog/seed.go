package catalog

// Default returns the catalog served by the demo.
func Default() *Catalog {
	return New([]Restaurant{
		{
			Id:              1,
			Name:            "Biryani Blues",
			Cuisines:        []Cuisine{CuisineNorthIndian, CuisineBiryani, CuisineMughlai},
			Rating:          4.3,
			DeliveryMinutes: MinutesRange{Min: 30, Max: 35},
			CostForTwo:      300,
			Offer:           "50% OFF up to ₹100",
			DistanceKm:      2.5,
		},
		{
			Id:              2,
			Name:            "Pizza Paradise",
			Cuisines:        []Cuisine{CuisineItalian, CuisinePizza, CuisinePasta},
			Rating:          4.5,
			DeliveryMinutes: MinutesRange{Min: 25, Max: 30},
			CostForTwo:      400,
			Offer:           "Buy 1 Get 1 Free",
			DistanceKm:      1.8,
		},
		{
			Id:              3,
			Name:            "The Burger Hub",
			Cuisines:        []Cuisine{CuisineAmerican, CuisineBurgers, CuisineFastFood},
			Rating:          4.2,
			DeliveryMinutes: MinutesRange{Min: 20, Max: 25},
			CostForTwo:      250,
			Offer:           "30% OFF",
			DistanceKm:      3.2,
		},
		{
			Id:              4,
			Name:            "Cafe Delight",
			Cuisines:        []Cuisine{CuisineCafe, CuisineCoffee, CuisineSnacks},
			Rating:          4.4,
			DeliveryMinutes: MinutesRange{Min: 15, Max: 20},
			CostForTwo:      200,
			Offer:           "Free Delivery",
			DistanceKm:      1.2,
		},
		{
			Id:              5,
			Name:            "Thali House",
			Cuisines:        []Cuisine{CuisineIndian, CuisineThali, CuisineHomeFood},
			Rating:          4.6,
			DeliveryMinutes: MinutesRange{Min: 35, Max: 40},
			CostForTwo:      350,
			Offer:           "₹125 OFF above ₹499",
			DistanceKm:      2.8,
		},
		{
			Id:              6,
			Name:            "Noodle Box",
			Cuisines:        []Cuisine{CuisineChinese, CuisineAsian, CuisineNoodles},
			Rating:          4.1,
			DeliveryMinutes: MinutesRange{Min: 30, Max: 35},
			CostForTwo:      300,
			Offer:           "40% OFF up to ₹80",
			DistanceKm:      4.1,
		},
	}).WithMenu(defaultMenu)
}

var defaultMenu = []MenuItem{
	{Id: 1, Name: "Margherita Pizza", Section: "Pizza", Price: 299, Veg: true},
	{Id: 2, Name: "Pepperoni Pizza", Section: "Pizza", Price: 349, Veg: false},
	{Id: 3, Name: "Veggie Supreme Pizza", Section: "Pizza", Price: 329, Veg: true},
	{Id: 4, Name: "BBQ Chicken Pizza", Section: "Pizza", Price: 379, Veg: false},
	{Id: 5, Name: "Mexican Fiesta Pizza", Section: "Pizza", Price: 359, Veg: true},
	{Id: 6, Name: "Cheese Burst Pizza", Section: "Pizza", Price: 399, Veg: true},
	{Id: 7, Name: "Paneer Tikka Pizza", Section: "Pizza", Price: 339, Veg: true},
	{Id: 8, Name: "Chicken Tikka Pizza", Section: "Pizza", Price: 369, Veg: false},
	{Id: 9, Name: "Farm House Pizza", Section: "Pizza", Price: 319, Veg: true},
	{Id: 10, Name: "Four Cheese Pizza", Section: "Pizza", Price: 419, Veg: true},
	{Id: 11, Name: "Classic Beef Burger", Section: "Burgers", Price: 199, Veg: false},
	{Id: 12, Name: "Veg Burger", Section: "Burgers", Price: 149, Veg: true},
	{Id: 13, Name: "Chicken Burger", Section: "Burgers", Price: 189, Veg: false},
	{Id: 14, Name: "Paneer Burger", Section: "Burgers", Price: 169, Veg: true},
	{Id: 15, Name: "Double Decker Burger", Section: "Burgers", Price: 259, Veg: false},
	{Id: 16, Name: "Cheese Burger", Section: "Burgers", Price: 179, Veg: true},
	{Id: 17, Name: "Mushroom Burger", Section: "Burgers", Price: 199, Veg: true},
	{Id: 18, Name: "Spicy Chicken Burger", Section: "Burgers", Price: 209, Veg: false},
	{Id: 19, Name: "Aloo Tikki Burger", Section: "Burgers", Price: 129, Veg: true},
	{Id: 20, Name: "Crispy Chicken Burger", Section: "Burgers", Price: 219, Veg: false},
	{Id: 21, Name: "Chicken Biryani", Section: "Biryani", Price: 280, Veg: false},
	{Id: 22, Name: "Mutton Biryani", Section: "Biryani", Price: 350, Veg: false},
	{Id: 23, Name: "Veg Biryani", Section: "Biryani", Price: 220, Veg: true},
	{Id: 24, Name: "Hyderabadi Biryani", Section: "Biryani", Price: 320, Veg: false},
	{Id: 25, Name: "Paneer Biryani", Section: "Biryani", Price: 240, Veg: true},
	{Id: 26, Name: "Egg Biryani", Section: "Biryani", Price: 200, Veg: false},
	{Id: 27, Name: "Prawn Biryani", Section: "Biryani", Price: 380, Veg: false},
	{Id: 28, Name: "Lucknowi Biryani", Section: "Biryani", Price: 340, Veg: false},
	{Id: 29, Name: "Mushroom Biryani", Section: "Biryani", Price: 250, Veg: true},
	{Id: 30, Name: "Chicken Dum Biryani", Section: "Biryani", Price: 310, Veg: false},
	{Id: 31, Name: "Hakka Noodles", Section: "Chinese", Price: 160, Veg: true},
	{Id: 32, Name: "Chicken Fried Rice", Section: "Chinese", Price: 180, Veg: false},
	{Id: 33, Name: "Veg Manchurian", Section: "Chinese", Price: 150, Veg: true},
	{Id: 34, Name: "Chilli Chicken", Section: "Chinese", Price: 220, Veg: false},
	{Id: 35, Name: "Spring Rolls", Section: "Chinese", Price: 120, Veg: true},
	{Id: 36, Name: "Chicken Schezwan Noodles", Section: "Chinese", Price: 200, Veg: false},
	{Id: 37, Name: "Veg Fried Rice", Section: "Chinese", Price: 140, Veg: true},
	{Id: 38, Name: "Chicken Chowmein", Section: "Chinese", Price: 190, Veg: false},
	{Id: 39, Name: "Paneer Chilli", Section: "Chinese", Price: 200, Veg: true},
	{Id: 40, Name: "Sweet and Sour Chicken", Section: "Chinese", Price: 210, Veg: false},
	{Id: 41, Name: "Veg Steamed Momos", Section: "Momos", Price: 120, Veg: true},
	{Id: 42, Name: "Chicken Steamed Momos", Section: "Momos", Price: 150, Veg: false},
	{Id: 43, Name: "Veg Fried Momos", Section: "Momos", Price: 140, Veg: true},
	{Id: 44, Name: "Chicken Fried Momos", Section: "Momos", Price: 170, Veg: false},
	{Id: 45, Name: "Paneer Momos", Section: "Momos", Price: 160, Veg: true},
	{Id: 46, Name: "Tandoori Momos", Section: "Momos", Price: 180, Veg: true},
	{Id: 47, Name: "Cheese Momos", Section: "Momos", Price: 170, Veg: true},
	{Id: 48, Name: "Schezwan Momos", Section: "Momos", Price: 160, Veg: true},
	{Id: 49, Name: "Kurkure Momos", Section: "Momos", Price: 150, Veg: true},
	{Id: 50, Name: "Afgani Momos", Section: "Momos", Price: 190, Veg: false},
	{Id: 51, Name: "Cold Coffee", Section: "Beverages", Price: 120, Veg: true},
	{Id: 52, Name: "Fresh Lime Soda", Section: "Beverages", Price: 70, Veg: true},
	{Id: 53, Name: "Mango Shake", Section: "Beverages", Price: 110, Veg: true},
	{Id: 54, Name: "Coca Cola", Section: "Beverages", Price: 50, Veg: true},
	{Id: 55, Name: "Masala Chai", Section: "Beverages", Price: 40, Veg: true},
	{Id: 56, Name: "Lassi", Section: "Beverages", Price: 80, Veg: true},
	{Id: 57, Name: "Chocolate Shake", Section: "Beverages", Price: 130, Veg: true},
	{Id: 58, Name: "Green Tea", Section: "Beverages", Price: 60, Veg: true},
	{Id: 59, Name: "Fresh Orange Juice", Section: "Beverages", Price: 90, Veg: true},
	{Id: 60, Name: "Iced Tea", Section: "Beverages", Price: 80, Veg: true},
	{Id: 61, Name: "Gulab Jamun (2 pcs)", Section: "Desserts", Price: 80, Veg: true},
	{Id: 62, Name: "Chocolate Brownie", Section: "Desserts", Price: 150, Veg: true},
	{Id: 63, Name: "Rasmalai (2 pcs)", Section: "Desserts", Price: 100, Veg: true},
	{Id: 64, Name: "Ice Cream (1 scoop)", Section: "Desserts", Price: 60, Veg: true},
	{Id: 65, Name: "Gajar Halwa", Section: "Desserts", Price: 90, Veg: true},
	{Id: 66, Name: "Tiramisu", Section: "Desserts", Price: 180, Veg: true},
	{Id: 67, Name: "Chocolate Lava Cake", Section: "Desserts", Price: 160, Veg: true},
	{Id: 68, Name: "Ras Malai Cake", Section: "Desserts", Price: 200, Veg: true},
	{Id: 69, Name: "Kulfi (2 pcs)", Section: "Desserts", Price: 70, Veg: true},
	{Id: 70, Name: "Cheesecake", Section: "Desserts", Price: 190, Veg: true},
}
