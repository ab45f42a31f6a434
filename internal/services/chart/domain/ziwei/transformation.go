package ziwei

// transformationsByStem lists the Lu, Quan, Ke and Ji stars for each year stem.
var transformationsByStem = [stemCount][4]StarName{
	StemJia:  {StarLianZhen, StarPoJun, StarWuQu, StarTaiYang},
	StemYi:   {StarTianJi, StarTianLiang, StarZiWei, StarTaiYin},
	StemBing: {StarTianTong, StarTianJi, StarWenChang, StarLianZhen},
	StemDing: {StarTaiYin, StarTianTong, StarTianJi, StarJuMen},
	StemWu:   {StarTanLang, StarTaiYin, StarYouBi, StarTianJi},
	StemJi:   {StarWuQu, StarTanLang, StarTianLiang, StarWenQu},
	StemGeng: {StarTaiYang, StarWuQu, StarTaiYin, StarTianTong},
	StemXin:  {StarJuMen, StarTaiYang, StarWenQu, StarWenChang},
	StemRen:  {StarTianLiang, StarZiWei, StarZuoFu, StarWuQu},
	StemGui:  {StarPoJun, StarJuMen, StarTaiYin, StarTanLang},
}

// Transformations returns the star carrying each marker in a year with stem,
// keyed by TransformationLu through TransformationJi.
func Transformations(stem Stem) map[Transformation]StarName {
	if !stem.Valid() {
		return nil
	}
	markers := transformationsByStem[stem]
	return map[Transformation]StarName{
		TransformationLu:   markers[0],
		TransformationQuan: markers[1],
		TransformationKe:   markers[2],
		TransformationJi:   markers[3],
	}
}
