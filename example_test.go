package ifcgo_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/ifcgo"
	"github.com/hupe1980/ifcgo/blobstore"
)

const exampleModel = `DATA;
#1=IFCPROJECT('0ProjectGuid0000000000',$,'Project',$,$,$,$,$,$);
#2=IFCSITE('1SiteGuid0000000000000',$,'Site',$,$,$,$,$,.ELEMENT.,$,$,$,$,$);
#3=IFCBUILDINGSTOREY('2StoreyGuid00000000000',$,'Level 1',$,$,$,$,$,.ELEMENT.,3.);
#4=IFCWALL('3WallGuid0000000000000',$,'Wall',$,$,$,$,$);
#5=IFCRELAGGREGATES('4AggGuid00000000000000',$,$,$,#1,(#2));
#6=IFCRELAGGREGATES('5AggGuid00000000000000',$,$,$,#2,(#3));
#7=IFCRELCONTAINEDINSPATIALSTRUCTURE('6ContGuid0000000000000',$,$,$,(#4),#3);
#10=IFCPROPERTYSET('2O2Fr$t4X7Zf8NOew3FLOH',$,'Pset_Demo',$,(#11));
#11=IFCPROPERTYSINGLEVALUE('Fire Rating',$,IFCLABEL('2HR'),$);
#12=IFCRELDEFINESBYPROPERTIES('7DefGuid00000000000000',$,$,$,(#4),#10);
ENDSEC;
`

func ExampleParse() {
	m, err := ifcgo.Parse(context.Background(), []byte(exampleModel))
	if err != nil {
		log.Fatal(err)
	}

	for _, n := range m.Hierarchy().Path(4) {
		fmt.Println(n.Type, n.Name)
	}
	for _, set := range m.PropertiesFor(4) {
		v, _ := set.Property("Fire Rating")
		fmt.Println(set.Name, v.Text())
	}
	// Output:
	// IFCPROJECT Project
	// IFCSITE Site
	// IFCBUILDINGSTOREY Level 1
	// Pset_Demo 2HR
}

func ExampleCacheManager() {
	ctx := context.Background()
	cm := ifcgo.NewCacheManager(blobstore.NewMemoryStore())

	for range 2 {
		m, hit, err := cm.Load(ctx, []byte(exampleModel))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(hit, m.Store().Count())
	}
	// Output:
	// false 10
	// true 10
}
